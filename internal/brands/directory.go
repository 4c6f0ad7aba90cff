// Package brands maintains the brand directory used for anchored-prefix
// brand matching: canonical names plus aliases, kept sorted by length
// descending so multi-word brands always match before their substrings.
package brands

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/creatorlink/product-pipeline-go/internal/model"
)

// DefaultTTL is how long a fetched snapshot is served before the remote
// source is consulted again.
const DefaultTTL = 30 * time.Minute

// Source supplies active brand entries from the remote directory.
type Source interface {
	FetchActive(ctx context.Context) ([]model.BrandEntry, error)
}

// Directory caches a snapshot of the brand list. Snapshots are replaced
// wholesale on refresh, never mutated in place, and the directory never
// serves an empty list: when the remote source fails or returns nothing it
// falls back to the built-in static list.
type Directory struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	names     []string                    // canonical names + aliases, length-descending
	entries   map[string]model.BrandEntry // case-folded name/alias -> owning entry
	fetchedAt time.Time
}

// NewDirectory creates a directory backed by source. A nil source means the
// static list is always used.
func NewDirectory(source Source, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the directory clock. Tests only.
func (d *Directory) WithClock(now func() time.Time) *Directory {
	d.now = now
	return d
}

// Brands returns the active lookup list: all canonical names and aliases,
// deduplicated and sorted by length descending. The returned slice is a
// snapshot and safe to iterate while the directory refreshes.
func (d *Directory) Brands(ctx context.Context) []string {
	d.mu.RLock()
	if d.names != nil && d.now().Sub(d.fetchedAt) < d.ttl {
		names := d.names
		d.mu.RUnlock()
		return names
	}
	d.mu.RUnlock()

	d.Refresh(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names
}

// Lookup resolves a brand name or alias to its owning entry.
func (d *Directory) Lookup(ctx context.Context, name string) (model.BrandEntry, bool) {
	d.Brands(ctx) // ensure a snapshot is loaded

	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, ok := d.entries[foldBrand(name)]
	return entry, ok
}

// Refresh evicts the current snapshot and re-fetches from the source.
// Remote failure is non-fatal: the static list takes over, and the cache
// timestamp is refreshed either way so a flapping source cannot cause a
// fetch storm.
func (d *Directory) Refresh(ctx context.Context) {
	entries := staticBrands
	if d.source != nil {
		fetched, err := d.source.FetchActive(ctx)
		switch {
		case err != nil:
			log.Printf("[Brands] directory fetch failed, using static list: %v", err)
		case len(fetched) == 0:
			log.Printf("[Brands] directory returned no active brands, using static list")
		default:
			entries = fetched
		}
	}

	names, index := flatten(entries)

	d.mu.Lock()
	d.names = names
	d.entries = index
	d.fetchedAt = d.now()
	d.mu.Unlock()
}

// flatten expands entries into the deduplicated, length-sorted lookup list
// and the alias index. Empty names and aliases are dropped.
func flatten(entries []model.BrandEntry) ([]string, map[string]model.BrandEntry) {
	seen := make(map[string]struct{})
	index := make(map[string]model.BrandEntry)
	var names []string

	add := func(value string, owner model.BrandEntry) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		names = append(names, value)
		if _, taken := index[foldBrand(value)]; !taken {
			index[foldBrand(value)] = owner
		}
	}

	for _, entry := range entries {
		add(entry.Name, entry)
		for _, alias := range entry.Aliases {
			add(alias, entry)
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	return names, index
}

func foldBrand(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
