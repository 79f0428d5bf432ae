package cache

import (
	"testing"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/scraper"
)

func entry(status string) *Entry {
	return &Entry{
		Result:    &scraper.CaseResult{Status: status},
		Raw:       "<p>Status: " + status + "</p>",
		FetchedAt: time.Now(),
	}
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache(10, time.Minute)
	key := GenerateCacheKey("W.P.(C)", "1234", 2022)

	if _, ok := c.Get(key); ok {
		t.Fatal("Get() on empty cache reported a hit")
	}
	if err := c.Set(key, entry("Pending")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() missed a stored entry")
	}
	if got.Result.Status != "Pending" {
		t.Errorf("Status = %q, want Pending", got.Result.Status)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 1", stats)
	}
	if stats.MaxSize != 10 || stats.TTLSeconds != 60 {
		t.Errorf("Stats() = %+v, want max 10 and ttl 60s", stats)
	}
}

func TestCacheExpires(t *testing.T) {
	c := NewCache(10, 20*time.Millisecond)
	key := GenerateCacheKey("LPA", "7", 2020)

	if err := c.Set(key, entry("Disposed")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Error("Get() returned an expired entry")
	}
}

func TestCacheEvictsWhenFull(t *testing.T) {
	c := NewCache(2, time.Minute)

	for i, k := range []string{"a", "b", "c"} {
		if err := c.Set(k, entry(k)); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
		if i < 2 {
			time.Sleep(5 * time.Millisecond)
		}
	}

	if size := c.Stats().Size; size != 2 {
		t.Fatalf("Size = %d, want 2", size)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry was not evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry missing")
	}
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	c := NewCache(2, time.Minute)
	c.Set("a", entry("one"))
	c.Set("b", entry("two"))
	c.Set("b", entry("three"))

	if _, ok := c.Get("a"); !ok {
		t.Error("overwriting an existing key evicted another entry")
	}
}

func TestCacheRejectsEmptyEntry(t *testing.T) {
	c := NewCache(2, time.Minute)
	if err := c.Set("k", &Entry{}); err == nil {
		t.Error("Set() accepted an entry without a result")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Set("a", entry("one"))
	c.Set("b", entry("two"))

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Delete() left the entry in place")
	}

	c.Clear()
	if stats := c.Stats(); stats.Size != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("Stats() after Clear() = %+v", stats)
	}
}

func TestGenerateCacheKey(t *testing.T) {
	a := GenerateCacheKey(" w.p.(c) ", "1234", 2022)
	b := GenerateCacheKey("W.P.(C)", "1234 ", 2022)
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	if a == GenerateCacheKey("W.P.(C)", "1234", 2021) {
		t.Error("different years share a key")
	}
}
