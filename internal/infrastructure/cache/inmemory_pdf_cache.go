package cache

import (
	"context"
	"sync"
	"time"
)

type pdfEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryPDFCache keeps PDFs in process memory. It holds at most
// maxEntries PDFs; when full, the entry closest to expiry is evicted.
type InMemoryPDFCache struct {
	mu         sync.RWMutex
	entries    map[string]pdfEntry
	maxEntries int
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryPDFCache starts a cache with a background expiry sweep.
func NewInMemoryPDFCache(maxEntries int, sweepInterval time.Duration) *InMemoryPDFCache {
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	c := &InMemoryPDFCache{
		entries:    make(map[string]pdfEntry),
		maxEntries: maxEntries,
		stopChan:   make(chan struct{}),
	}
	c.wg.Add(1)
	go c.sweepLoop(sweepInterval)
	return c
}

// Get returns a copy of the cached PDF.
func (c *InMemoryPDFCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of pdf for ttl.
func (c *InMemoryPDFCache) Set(_ context.Context, key string, pdf []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = pdfEntry{
		data:      append([]byte(nil), pdf...),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *InMemoryPDFCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryPDFCache) evictLocked() {
	var victim string
	var soonest time.Time
	for k, e := range c.entries {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = k, e.expiresAt
		}
	}
	delete(c.entries, victim)
}

func (c *InMemoryPDFCache) sweepLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryPDFCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Close stops the sweep goroutine.
func (c *InMemoryPDFCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

var _ PDFCache = (*InMemoryPDFCache)(nil)
