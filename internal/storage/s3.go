// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage publishes exported sites to S3-compatible object storage
// so they can be served as static hosting. It wraps the AWS SDK v2 and is
// configured for path-style access.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"webtg/internal/export"
)

// objectAPI is the subset of the S3 client used for publishing.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client uploads site files into one public bucket.
type Client struct {
	s3        objectAPI
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for published files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint, credentials or bucket are empty, allowing the app
// to start without publishing.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// PublishSite uploads every file under prefix with public-read ACL and
// returns the public URL of the first file (the site's entry page).
func (c *Client) PublishSite(ctx context.Context, prefix string, files []export.File) (string, error) {
	if len(files) == 0 {
		return "", export.ErrNothingToDownload
	}
	prefix = strings.Trim(prefix, "/")

	for _, f := range files {
		key := path.Join(prefix, f.Name)
		_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(c.bucket),
			Key:           aws.String(key),
			Body:          strings.NewReader(f.Content),
			ContentLength: aws.Int64(int64(len(f.Content))),
			ContentType:   aws.String("text/html; charset=utf-8"),
			ACL:           s3types.ObjectCannedACLPublicRead,
		})
		if err != nil {
			return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
		}
	}

	slog.Info("site published", "bucket", c.bucket, "prefix", prefix, "files", len(files))
	return c.FileURL(path.Join(prefix, files[0].Name)), nil
}

// Unpublish removes the given files from under prefix.
func (c *Client) Unpublish(ctx context.Context, prefix string, names []string) error {
	prefix = strings.Trim(prefix, "/")
	for _, name := range names {
		key := path.Join(prefix, name)
		_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
		}
	}
	return nil
}

// FileURL returns the public URL for a key. Uses the configured public URL
// if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}
