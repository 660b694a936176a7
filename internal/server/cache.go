package server

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/risk"
)

// cachedScan is everything /scan computes for a URL. Both classification and
// risk scoring are pure, so entries never go stale while the process runs.
type cachedScan struct {
	verdict classifier.Verdict
	risk    *risk.Report
	riskErr string
}

type scanCache interface {
	Get(url string) (cachedScan, bool)
	Put(url string, s cachedScan)
	Len() int
	Stats() (hits, misses uint64)
}

type lruScanCache struct {
	lru    *lru.Cache[string, cachedScan]
	hits   uint64
	misses uint64
}

// disabledCache always misses.
type disabledCache struct{}

func newScanCache(size int) (scanCache, error) {
	if size <= 0 {
		return disabledCache{}, nil
	}
	cache, err := lru.New[string, cachedScan](size)
	if err != nil {
		return nil, err
	}
	return &lruScanCache{lru: cache}, nil
}

func (c *lruScanCache) Get(url string) (cachedScan, bool) {
	if val, ok := c.lru.Get(url); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	return cachedScan{}, false
}

func (c *lruScanCache) Put(url string, s cachedScan) { c.lru.Add(url, s) }

func (c *lruScanCache) Len() int { return c.lru.Len() }

func (c *lruScanCache) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

func (disabledCache) Get(string) (cachedScan, bool) { return cachedScan{}, false }
func (disabledCache) Put(string, cachedScan)        {}
func (disabledCache) Len() int                      { return 0 }
func (disabledCache) Stats() (uint64, uint64)       { return 0, 0 }

var _ scanCache = (*lruScanCache)(nil)
var _ scanCache = disabledCache{}
