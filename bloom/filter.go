// Package bloom provides a Bloom-filter fast path for slug lookups.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a concurrency-safe Bloom filter of slugs.
type Filter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected slugs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a slug to the filter.
func (f *Filter) Add(slug string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(slug)
}

// Test returns true if the slug might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(slug string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(slug)
}

// EstimatedCount returns the approximate number of slugs in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}
