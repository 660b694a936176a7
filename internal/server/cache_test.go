package server

import (
	"testing"

	"github.com/phishguard/phishguard/internal/classifier"
)

func TestScanCacheHitMissAndEviction(t *testing.T) {
	c, err := newScanCache(2)
	if err != nil {
		t.Fatalf("newScanCache error: %v", err)
	}

	if _, ok := c.Get("http://a"); ok {
		t.Fatalf("expected miss before put")
	}
	c.Put("http://a", cachedScan{verdict: classifier.Verdict{Kind: classifier.Suspicious, Reason: "r"}})
	got, ok := c.Get("http://a")
	if !ok || got.verdict.Reason != "r" {
		t.Fatalf("unexpected get: ok=%v got=%+v", ok, got)
	}

	c.Put("http://b", cachedScan{})
	c.Put("http://c", cachedScan{})
	if c.Len() != 2 {
		t.Fatalf("len=%d want=2 after eviction", c.Len())
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("unexpected stats hits=%d misses=%d", hits, misses)
	}
}

func TestScanCacheDisabled(t *testing.T) {
	c, err := newScanCache(0)
	if err != nil {
		t.Fatalf("newScanCache error: %v", err)
	}
	c.Put("http://a", cachedScan{})
	if _, ok := c.Get("http://a"); ok {
		t.Fatalf("expected miss in disabled cache")
	}
	if c.Len() != 0 {
		t.Fatalf("len=%d want=0 for disabled", c.Len())
	}
}
