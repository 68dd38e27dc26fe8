package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"webtg/internal/export"
)

type fakeS3 struct {
	puts    map[string]string
	acl     map[string]s3types.ObjectCannedACL
	deletes []string
	failOn  string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{puts: map[string]string{}, acl: map[string]s3types.ObjectCannedACL{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if *in.Key == f.failOn {
		return nil, errors.New("denied")
	}
	body, _ := io.ReadAll(in.Body)
	f.puts[*in.Key] = string(body)
	f.acl[*in.Key] = in.ACL
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestNewWithoutConfigReturnsNil(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "", "")
	if c != nil || err != nil {
		t.Errorf("New with empty config = %v, %v; want nil, nil", c, err)
	}
}

func TestPublishSite(t *testing.T) {
	fake := newFakeS3()
	c := &Client{s3: fake, bucket: "sites", endpoint: "https://s3.example.com"}

	files := []export.File{
		{Name: "index.html", Content: "<html>i</html>"},
		{Name: "about.html", Content: "<html>a</html>"},
	}
	url, err := c.PublishSite(context.Background(), "/acme-gym-zen/", files)
	if err != nil {
		t.Fatalf("PublishSite: %v", err)
	}
	if url != "https://s3.example.com/sites/acme-gym-zen/index.html" {
		t.Errorf("url = %q", url)
	}
	if fake.puts["acme-gym-zen/about.html"] != "<html>a</html>" {
		t.Errorf("puts = %v", fake.puts)
	}
	if fake.acl["acme-gym-zen/index.html"] != s3types.ObjectCannedACLPublicRead {
		t.Error("published files should be public-read")
	}
}

func TestPublishSiteErrors(t *testing.T) {
	fake := newFakeS3()
	fake.failOn = "p/about.html"
	c := &Client{s3: fake, bucket: "sites", endpoint: "https://s3.example.com"}

	if _, err := c.PublishSite(context.Background(), "p", nil); !errors.Is(err, export.ErrNothingToDownload) {
		t.Errorf("empty publish err = %v", err)
	}
	_, err := c.PublishSite(context.Background(), "p", []export.File{{Name: "index.html"}, {Name: "about.html"}})
	if err == nil {
		t.Error("expected upload error")
	}
}

func TestFileURLWithPublicURL(t *testing.T) {
	c := &Client{bucket: "sites", endpoint: "https://s3.example.com", publicURL: "https://cdn.example.com"}
	if got := c.FileURL("a/index.html"); got != "https://cdn.example.com/a/index.html" {
		t.Errorf("FileURL = %q", got)
	}
}

func TestUnpublish(t *testing.T) {
	fake := newFakeS3()
	c := &Client{s3: fake, bucket: "sites"}
	if err := c.Unpublish(context.Background(), "p", []string{"index.html", "about.html"}); err != nil {
		t.Fatal(err)
	}
	if len(fake.deletes) != 2 || fake.deletes[0] != "p/index.html" {
		t.Errorf("deletes = %v", fake.deletes)
	}
}
