package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c, err := New(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetGetRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type row struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}
	in := []row{{Name: "alice", Points: 55}, {Name: "bob", Points: 30}}
	if err := c.Set(ctx, "leaderboard:overall:50", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []row
	if err := c.Get(ctx, "leaderboard:overall:50", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 2 || out[0].Name != "alice" || out[1].Points != 30 {
		t.Fatalf("roundtrip mismatch: %+v", out)
	}
}

func TestGetMissLeavesDestUntouched(t *testing.T) {
	c, _ := newTestCache(t)

	out := []string{"sentinel"}
	if err := c.Get(context.Background(), "missing", &out); err != nil {
		t.Fatalf("Get miss: %v", err)
	}
	if len(out) != 1 || out[0] != "sentinel" {
		t.Fatalf("dest modified on miss: %v", out)
	}
}

func TestDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", 7, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("k") {
		t.Fatalf("key still present after delete")
	}
}

func TestNilServiceIsNoop(t *testing.T) {
	var c *CacheService
	ctx := context.Background()
	if err := c.Set(ctx, "k", 1, time.Second); err != nil {
		t.Fatalf("nil Set: %v", err)
	}
	var out int
	if err := c.Get(ctx, "k", &out); err != nil {
		t.Fatalf("nil Get: %v", err)
	}
	if out != 0 {
		t.Fatalf("nil Get wrote dest: %d", out)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("nil Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}
