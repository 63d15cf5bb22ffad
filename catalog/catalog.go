// Package catalog reads the potential option pool shipped with the resource
// bundle and answers first-line queries for the departure check.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidPool = errors.New("potential pool is not valid JSON")
	ErrUnknownCube = errors.New("cube not found in potential pool")
)

// Catalog - read-only view over a potential pool document:
//
//	{"cubes": {"5062010": {"name": "...", "options": [
//	  {"text": "공격력 +13%", "parts": [1, 3], "lines": [1, 2, 3], "min_level": 160, "max_level": 250}
//	]}}}
//
// Missing "parts" or "lines" means every parts type or line position;
// missing "max_level" means no upper bound.
type Catalog struct {
	raw     string
	matcher *Matcher

	mu    sync.Mutex
	index map[poolKey][]string
}

type poolKey struct {
	cubeID string
	parts  potential.PartsType
	level  int
	line   int
}

type Option func(*Catalog)

// WithMatcher sets the OCR matcher used by Snap.
func WithMatcher(m *Matcher) Option {
	return func(c *Catalog) {
		if m != nil {
			c.matcher = m
		}
	}
}

// Load reads a pool file from disk.
func Load(path string, opts ...Option) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read potential pool: %w", err)
	}
	c, err := New(raw, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().Str("path", path).Int("cubes", len(c.Cubes())).Msg("<Catalog> potential pool loaded")
	return c, nil
}

func New(raw []byte, opts ...Option) (*Catalog, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPool
	}
	c := &Catalog{
		raw:     string(raw),
		matcher: NewMatcher(nil, 0),
		index:   make(map[poolKey][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Cubes lists the cube ids present in the pool.
func (c *Catalog) Cubes() []string {
	var ids []string
	gjson.Get(c.raw, "cubes").ForEach(func(k, _ gjson.Result) bool {
		ids = append(ids, k.String())
		return true
	})
	return ids
}

// FirstLines returns the option texts that can roll on line 1.
func (c *Catalog) FirstLines(ctx context.Context, cubeID string, parts potential.PartsType, level int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Options(cubeID, parts, level, 1)
}

// Options returns the option texts for a cube, parts type and item level,
// restricted to line position line (1-3) or unrestricted when line is 0.
func (c *Catalog) Options(cubeID string, parts potential.PartsType, level int, line int) ([]string, error) {
	key := poolKey{cubeID: cubeID, parts: parts, level: level, line: line}

	c.mu.Lock()
	if opts, ok := c.index[key]; ok {
		c.mu.Unlock()
		return opts, nil
	}
	c.mu.Unlock()

	cube := gjson.Get(c.raw, "cubes."+escapeKey(cubeID))
	if !cube.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCube, cubeID)
	}

	seen := make(map[string]struct{})
	var opts []string
	cube.Get("options").ForEach(func(_, o gjson.Result) bool {
		text := potential.Normalize(o.Get("text").String())
		if text == "" {
			return true
		}
		if !containsInt(o.Get("parts"), int(parts)) || !containsInt(o.Get("lines"), line) {
			return true
		}
		if lv := o.Get("min_level"); lv.Exists() && level < int(lv.Int()) {
			return true
		}
		if lv := o.Get("max_level"); lv.Exists() && level > int(lv.Int()) {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		opts = append(opts, text)
		return true
	})

	c.mu.Lock()
	c.index[key] = opts
	c.mu.Unlock()

	log.Debug().Str("cube", cubeID).Str("parts", parts.String()).Int("level", level).Int("line", line).
		Int("options", len(opts)).Msg("<Catalog> options indexed")
	return opts, nil
}

// Snap corrects OCR text to the closest pool option of the selection.
// Text that cannot be snapped comes back normalized with ok false.
func (c *Catalog) Snap(sel potential.Context, text string) (string, bool) {
	pool, err := c.Options(sel.CubeID, sel.Parts, sel.Level, 0)
	if err != nil {
		return potential.Normalize(text), false
	}
	return c.matcher.Snap(text, pool)
}

// containsInt reports whether arr holds v; a missing or empty array matches anything.
func containsInt(arr gjson.Result, v int) bool {
	if !arr.Exists() || v == 0 {
		return true
	}
	items := arr.Array()
	if len(items) == 0 {
		return true
	}
	for _, it := range items {
		if int(it.Int()) == v {
			return true
		}
	}
	return false
}

func escapeKey(k string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(k)
}
