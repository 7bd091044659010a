package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestCompressed(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewCompressed(fc)
	defer c.Close()

	payload := []byte(strings.Repeat(`{"distance":12.5,"speed":40},`, 200))
	if err := c.Set(ctx, "graph:x", payload, time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	raw, hit, err := fc.Get(ctx, "graph:x")
	if err != nil || !hit {
		t.Fatalf("inner Get = hit %v, err %v", hit, err)
	}
	if len(raw) >= len(payload) {
		t.Errorf("stored %d bytes for a %d byte payload", len(raw), len(payload))
	}

	data, hit, err := c.Get(ctx, "graph:x")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("Get() did not return the original payload")
	}

	if err := c.Delete(ctx, "graph:x"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "graph:x"); hit {
		t.Error("Get after Delete should miss")
	}
	if c.Unwrap() != Cache(fc) {
		t.Error("Unwrap() should return the inner cache")
	}
}

func TestCompressedCorruptEntry(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewCompressed(fc)

	// Written without the wrapper, so not a snappy block.
	if err := fc.Set(ctx, "k", []byte{0xff, 0xff, 0xff, 0xff, 0xff}, 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err == nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want a decode error", data, hit, err)
	}
}

func TestCompressedMiss(t *testing.T) {
	c := NewCompressed(NewNullCache())
	if _, hit, err := c.Get(context.Background(), "k"); hit || err != nil {
		t.Errorf("Get() on empty cache = hit %v, err %v", hit, err)
	}
}
