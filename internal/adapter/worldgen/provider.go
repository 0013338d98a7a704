// Package worldgen holds world-model providers that hand a pre-built layout
// to the session use case. The session falls back to procedural generation
// whenever a provider returns no layout.
package worldgen

import (
	"context"
	"slices"
	"strings"
	"sync"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/world"
)

// Unavailable stands in for an external world model that is not wired up.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string) (*world.Generated, error) {
	return nil, nil
}

// Static serves fixed layouts chosen by a keyword found in the prompt.
// Keywords are matched case-insensitively in lexical order; Default is used
// when none matches and may be nil.
type Static struct {
	Layouts map[string]world.Generated
	Default *world.Generated
}

func (s Static) Generate(_ context.Context, prompt string) (*world.Generated, error) {
	p := strings.ToLower(prompt)
	keys := make([]string, 0, len(s.Layouts))
	for k := range s.Layouts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if strings.Contains(p, strings.ToLower(k)) {
			g := cloneGenerated(s.Layouts[k])
			return &g, nil
		}
	}
	if s.Default == nil {
		return nil, nil
	}
	g := cloneGenerated(*s.Default)
	return &g, nil
}

type cacheEntry struct {
	layout *world.Generated
}

// Cache memoizes another generator per prompt, including "no layout"
// answers. Errors are not cached.
type Cache struct {
	next ports.WorldGenerator

	mu      sync.Mutex
	entries map[string]cacheEntry
	misses  int
}

func NewCache(next ports.WorldGenerator) *Cache {
	return &Cache{next: next, entries: map[string]cacheEntry{}}
}

func (c *Cache) Generate(ctx context.Context, prompt string) (*world.Generated, error) {
	key := strings.TrimSpace(strings.ToLower(prompt))
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cloneLayout(e.layout), nil
	}
	c.misses++
	c.mu.Unlock()

	g, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{layout: cloneLayout(g)}
	c.mu.Unlock()
	return g, nil
}

// Misses reports how many calls reached the wrapped generator.
func (c *Cache) Misses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

func cloneLayout(g *world.Generated) *world.Generated {
	if g == nil {
		return nil
	}
	out := cloneGenerated(*g)
	return &out
}

func cloneGenerated(g world.Generated) world.Generated {
	g.Tiles = slices.Clone(g.Tiles)
	g.Enemies = slices.Clone(g.Enemies)
	return g
}
