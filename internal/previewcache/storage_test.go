package previewcache

import (
	"errors"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	s := NewFileStorage(t.TempDir(), 0)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set("cache", `{"a":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := s.Get("cache")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want present", ok, err)
	}
	if value != `{"a":1}` {
		t.Errorf("Get = %q, want %q", value, `{"a":1}`)
	}
}

func TestFileStorageQuota(t *testing.T) {
	s := NewFileStorage(t.TempDir(), 10)
	if err := s.Set("cache", "0123456789!"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set over quota returned %v, want ErrQuotaExceeded", err)
	}
	if err := s.Set("cache", "0123456789"); err != nil {
		t.Errorf("Set at quota returned %v, want nil", err)
	}
}
