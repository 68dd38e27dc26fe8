package statestore

import (
	"context"
	"errors"
	"testing"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// failingStore fails every read, standing in for an unreachable backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingStore) Set(context.Context, string, []byte) error { return errors.New("backend down") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("backend down") }

// exerciseStore runs the shared contract against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "cswebtg_test_contract"

	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get on missing key: ok=%v err=%v", ok, err)
	}

	if err := SetJSON(ctx, s, key, entry{Name: "a", Count: 2}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	got := GetJSON(ctx, s, key, entry{})
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("GetJSON = %+v, want {a 2}", got)
	}

	if err := SetJSON(ctx, s, key, entry{Name: "b"}); err != nil {
		t.Fatalf("SetJSON overwrite: %v", err)
	}
	if got := GetJSON(ctx, s, key, entry{}); got.Name != "b" {
		t.Errorf("after overwrite Name = %q, want b", got.Name)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
	if got := GetJSON(ctx, s, key, entry{Name: "default"}); got.Name != "default" {
		t.Errorf("after delete got %+v, want fallback", got)
	}

	if err := s.Set(ctx, "", []byte("1")); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Set empty key: got %v, want ErrEmptyKey", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte(`"x"`)
	if err := s.Set(ctx, "k", buf); err != nil {
		t.Fatal(err)
	}
	buf[1] = 'y'
	got, _, _ := s.Get(ctx, "k")
	if string(got) != `"x"` {
		t.Errorf("stored value changed through caller slice: %s", got)
	}
}

func TestGetJSONCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, KeySavedTemplates, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	got := GetJSON(ctx, s, KeySavedTemplates, []entry{{Name: "fallback"}})
	if len(got) != 1 || got[0].Name != "fallback" {
		t.Errorf("corrupt entry: got %+v, want fallback", got)
	}
}

func TestGetJSONBackendErrorFallsBack(t *testing.T) {
	got := GetJSON(context.Background(), failingStore{}, KeyAuth, entry{Name: "fallback"})
	if got.Name != "fallback" {
		t.Errorf("backend error: got %+v, want fallback", got)
	}
}

func TestSetJSONWrapsBackendError(t *testing.T) {
	err := SetJSON(context.Background(), failingStore{}, KeyAuth, true)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetString(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if got := GetString(ctx, s, KeyAPIBase); got != "" {
		t.Errorf("missing override = %q, want empty", got)
	}
	if err := SetJSON(ctx, s, KeyAPIBase, "http://localhost:8080"); err != nil {
		t.Fatal(err)
	}
	if got := GetString(ctx, s, KeyAPIBase); got != "http://localhost:8080" {
		t.Errorf("override = %q", got)
	}
}

func TestIsOverrideKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{KeyAPIBase, true},
		{KeyOpenAIKey, true},
		{KeyAuthOrigin, true},
		{KeyGoogleClientID, true},
		{KeySavedTemplates, false},
		{KeyAuth, false},
		{"random", false},
	}
	for _, tc := range tests {
		if got := IsOverrideKey(tc.key); got != tc.want {
			t.Errorf("IsOverrideKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}
