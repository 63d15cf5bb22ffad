// Package departure detects "departed" rolls: a second or third line that
// repeats an option which could also have rolled as the first line.
package departure

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Catalog - source of the line-1 option pool for a cube, parts type and item level
type Catalog interface {
	FirstLines(ctx context.Context, cubeID string, parts potential.PartsType, level int) ([]string, error)
}

// Key - memoization key of one first-line pool
type Key struct {
	CubeID string
	Parts  potential.PartsType
	Level  int
}

// KeyOf builds the pool key for a selection context.
func KeyOf(c potential.Context) Key {
	return Key{CubeID: c.CubeID, Parts: c.Parts, Level: c.Level}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%d", k.CubeID, k.Parts, k.Level)
}

// Lines - normalized first-line option texts. A nil or empty Lines never reports a departure.
type Lines map[string]struct{}

// NewLines normalizes texts into a lookup set; empty input gives nil.
func NewLines(texts []string) Lines {
	if len(texts) == 0 {
		return nil
	}
	l := make(Lines, len(texts))
	for _, t := range texts {
		if n := potential.Normalize(t); n != "" {
			l[n] = struct{}{}
		}
	}
	if len(l) == 0 {
		return nil
	}
	return l
}

// Contains reports whether text (normalized) is a first-line option.
func (l Lines) Contains(text string) bool {
	if len(l) == 0 {
		return false
	}
	_, ok := l[potential.Normalize(text)]
	return ok
}

// Departed reports whether line 2 or line 3 of a three-line set is a first-line option.
func (l Lines) Departed(set potential.CandidateSet) bool {
	if len(l) == 0 || !set.Valid() {
		return false
	}
	return l.Contains(set[1]) || l.Contains(set[2])
}

// Cache - memoized first-line pools, one catalog fetch per key
type Cache struct {
	catalog Catalog
	group   singleflight.Group

	mu      sync.Mutex
	entries map[Key]Lines
	fetches int
}

// NewCache wraps a catalog. A nil catalog yields a cache whose lookups are always empty.
func NewCache(catalog Catalog) *Cache {
	return &Cache{
		catalog: catalog,
		entries: make(map[Key]Lines),
	}
}

// Lookup returns the first-line pool for key, fetching it on first use. Failed
// or empty fetches are remembered as an empty pool; only cancellation is retried.
func (c *Cache) Lookup(ctx context.Context, key Key) Lines {
	if c == nil || c.catalog == nil {
		return nil
	}
	if l, ok := c.cached(key); ok {
		return l
	}

	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		if l, ok := c.cached(key); ok {
			return l, nil
		}
		c.mu.Lock()
		c.fetches++
		c.mu.Unlock()

		texts, err := c.catalog.FirstLines(ctx, key.CubeID, key.Parts, key.Level)
		if err != nil {
			log.Warn().Err(err).Str("key", key.String()).Msg("<Departure> first-line catalog unavailable")
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Lines(nil), nil
			}
			texts = nil
		}
		lines := NewLines(texts)
		log.Debug().Str("key", key.String()).Int("lines", len(lines)).Msg("<Departure> first-line pool cached")

		c.mu.Lock()
		c.entries[key] = lines
		c.mu.Unlock()
		return lines, nil
	})
	l, _ := v.(Lines)
	return l
}

// Fetches counts catalog fetches since the last Reset.
func (c *Cache) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

// Reset drops every cached pool.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]Lines)
	c.fetches = 0
}

func (c *Cache) cached(key Key) (Lines, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[key]
	return l, ok
}
