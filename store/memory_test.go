package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	// 过期判断在读取路径上，不依赖后台清理
	_ = m.Set(ctx, "ephemeral", []byte("v"), 1)
	if _, err := m.Get(ctx, "ephemeral"); err != nil {
		t.Fatalf("fresh key must be readable: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := m.Get(ctx, "ephemeral"); !core.IsStoreNotFound(err) {
		t.Errorf("expired key must be gone, got %v", err)
	}
}

func TestMemoryStoreBatchGet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))

	got, err := m.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "rec:1:a", []byte("x"))
	_ = m.Set(ctx, "rec:1:b", []byte("y"))
	_ = m.Set(ctx, "rec:2:a", []byte("z"))
	_ = m.HSet(ctx, "rec:1:h", "f", []byte("v"))

	n, err := m.DeleteByPrefix(ctx, "rec:1:")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("deleted %d, want 3", n)
	}
	if _, err := m.Get(ctx, "rec:2:a"); err != nil {
		t.Error("unrelated key must survive")
	}
}

func TestMemoryStoreSortedSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	_ = m.ZAdd(ctx, "board", 0.5, "a")
	_ = m.ZAdd(ctx, "board", 0.9, "b")
	_ = m.ZAdd(ctx, "board", 0.7, "c")
	_ = m.ZAdd(ctx, "board", 0.7, "aa") // 同分按 member 升序

	got, err := m.ZRange(ctx, "board", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "aa", "c"}
	if len(got) != len(want) {
		t.Fatalf("ZRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ZRange = %v, want %v", got, want)
		}
	}

	all, _ := m.ZRange(ctx, "board", 0, -1)
	if len(all) != 4 {
		t.Errorf("full range = %v", all)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	_ = m.HSet(ctx, "h", "f1", []byte("v1"))
	_ = m.HSet(ctx, "h", "f2", []byte("v2"))

	got, err := m.HGet(ctx, "h", "f1")
	if err != nil || string(got) != "v1" {
		t.Fatalf("HGet = %q, %v", got, err)
	}
	if _, err := m.HGet(ctx, "h", "nope"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found for missing field, got %v", err)
	}

	all, err := m.HGetAll(ctx, "h")
	if err != nil || len(all) != 2 {
		t.Fatalf("HGetAll = %v, %v", all, err)
	}

	empty, err := m.HGetAll(ctx, "unknown")
	if err != nil || len(empty) != 0 {
		t.Fatalf("HGetAll(unknown) = %v, %v", empty, err)
	}
}
