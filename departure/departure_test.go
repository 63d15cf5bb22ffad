package departure

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
)

type fakeCatalog struct {
	mu    sync.Mutex
	calls map[Key]int
	lines []string
	err   error
}

func (f *fakeCatalog) FirstLines(_ context.Context, cubeID string, parts potential.PartsType, level int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[Key]int)
	}
	f.calls[Key{CubeID: cubeID, Parts: parts, Level: level}]++
	return f.lines, f.err
}

func TestLines_Departed(t *testing.T) {
	lines := NewLines([]string{"공격력 +13%", "보스 몬스터 공격 시 데미지 +40%"})

	tests := []struct {
		name string
		set  potential.CandidateSet
		want bool
	}{
		{name: "line two departed", set: potential.CandidateSet{"공격력 +10%", "공격력 +13%", "STR +9%"}, want: true},
		{name: "line three departed", set: potential.CandidateSet{"공격력 +10%", "STR +9%", "보스 몬스터 공격 시 데미지 +40%"}, want: true},
		{name: "only line one matches", set: potential.CandidateSet{"공격력 +13%", "공격력 +10%", "STR +9%"}, want: false},
		{name: "short set", set: potential.CandidateSet{"공격력 +10%", "공격력 +13%"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lines.Departed(tt.set); got != tt.want {
				t.Errorf("Departed() = %v, want %v", got, tt.want)
			}
		})
	}

	var empty Lines
	if empty.Departed(potential.CandidateSet{"a", "b", "c"}) {
		t.Error("nil pool must never report a departure")
	}
}

func TestCache_MemoizesPerKey(t *testing.T) {
	cat := &fakeCatalog{lines: []string{"공격력 +13%"}}
	c := NewCache(cat)
	key := Key{CubeID: potential.CubeIDMain, Parts: potential.PartsWeapon, Level: 200}

	for i := 0; i < 5; i++ {
		if l := c.Lookup(context.Background(), key); !l.Contains("공격력 +13%") {
			t.Fatalf("lookup %d missing line", i)
		}
	}
	if c.Fetches() != 1 || cat.calls[key] != 1 {
		t.Errorf("fetches = %d, catalog calls = %d, want 1", c.Fetches(), cat.calls[key])
	}

	other := Key{CubeID: potential.CubeIDMain, Parts: potential.PartsWeapon, Level: 160}
	c.Lookup(context.Background(), other)
	if c.Fetches() != 2 {
		t.Errorf("new key should fetch once more, fetches = %d", c.Fetches())
	}

	c.Reset()
	c.Lookup(context.Background(), key)
	if cat.calls[key] != 2 {
		t.Errorf("reset should allow a refetch, calls = %d", cat.calls[key])
	}
}

func TestCache_ConcurrentLookupsShareFetch(t *testing.T) {
	cat := &fakeCatalog{lines: []string{"공격력 +13%"}}
	c := NewCache(cat)
	key := Key{CubeID: potential.CubeIDMain, Parts: potential.PartsSecondary, Level: 200}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Lookup(context.Background(), key)
		}()
	}
	wg.Wait()
	if c.Fetches() != 1 {
		t.Errorf("fetches = %d, want 1", c.Fetches())
	}
}

func TestCache_FailureIsEmptyAndMemoized(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("pool file missing")}
	c := NewCache(cat)
	key := Key{CubeID: potential.CubeIDMain, Parts: potential.PartsWeapon, Level: 200}

	if l := c.Lookup(context.Background(), key); l != nil {
		t.Errorf("failed fetch should give nil pool, got %v", l)
	}
	c.Lookup(context.Background(), key)
	if c.Fetches() != 1 {
		t.Errorf("failure should be memoized, fetches = %d", c.Fetches())
	}
}

func TestCache_NilCatalog(t *testing.T) {
	c := NewCache(nil)
	if l := c.Lookup(context.Background(), Key{}); l != nil {
		t.Errorf("nil catalog lookup = %v, want nil", l)
	}
}
