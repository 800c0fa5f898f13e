// Package variables imports every variable a run may bind to, once, before any mutation.
package variables

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/recolor/internal/keys"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

// DefaultConcurrency bounds the number of in-flight imports.
const DefaultConcurrency = 8

// Failure records a key whose import failed.
type Failure struct {
	Key string
	Err error
}

// Cache maps canonical keys to imported variables. It is read-only once built.
type Cache struct {
	vars     map[string]domain.Variable
	failures []Failure
}

// Lookup resolves an id in any accepted shape (bare key, variable id) to an imported variable.
// A missing entry is the normal "no match" path, not an error.
func (c *Cache) Lookup(id string) (domain.Variable, bool) {
	if c == nil {
		return domain.Variable{}, false
	}
	key, ok := keys.Extract(id)
	if !ok {
		return domain.Variable{}, false
	}
	v, ok := c.vars[key]
	return v, ok
}

// Len returns the number of imported variables.
func (c *Cache) Len() int {
	return len(c.vars)
}

// Failures returns the failed keys in request order.
func (c *Cache) Failures() []Failure {
	return c.failures
}

// Keys gathers the distinct canonical keys referenced by the active table entries and
// the enabled rules, in first-seen order. Unrecognized mapped keys are skipped.
func Keys(tables domain.Tables, rules []domain.AdvancedMappingEntry) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		key, ok := keys.Extract(id)
		if !ok || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, key)
	}

	for _, group := range [][]domain.MappingEntry{tables.Styles, tables.Variables, tables.Colors} {
		for _, e := range group {
			if e.Active() {
				add(e.MappedKey)
			}
		}
	}
	for _, r := range rules {
		if r.Enabled {
			add(r.MappedKey)
		}
	}
	return out
}

// ImportAll fetches every key through importer in parallel (at most concurrency at a time).
// Each key is isolated: a failure is recorded in the cache and never aborts the batch.
func ImportAll(ctx context.Context, importer ports.VariableImporter, keyList []string, concurrency int, logger *slog.Logger) *Cache {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	type result struct {
		v   domain.Variable
		err error
	}
	results := make([]result, len(keyList))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, key := range keyList {
		g.Go(func() error {
			v, err := importOne(ctx, importer, key)
			results[i] = result{v: v, err: err}
			return nil
		})
	}
	_ = g.Wait()

	cache := &Cache{vars: make(map[string]domain.Variable, len(keyList))}
	for i, key := range keyList {
		r := results[i]
		if r.err != nil {
			logger.Error("variable import failed", "key", key, "err", r.err)
			cache.failures = append(cache.failures, Failure{Key: key, Err: r.err})
			continue
		}
		cache.vars[key] = r.v
	}
	logger.Debug("variables imported", "requested", len(keyList), "imported", len(cache.vars), "failed", len(cache.failures))
	return cache
}

// importOne shields the batch from importer panics.
func importOne(ctx context.Context, importer ports.VariableImporter, key string) (v domain.Variable, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("importer panicked: %v", p)
		}
	}()
	return importer.ImportByKey(ctx, key)
}
