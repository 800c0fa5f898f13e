package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/recolor/pkg/domain"
)

// Library implements ports.VariableImporter over an in-memory set of published variables.
// Safe for concurrent use.
type Library struct {
	mu   sync.RWMutex
	vars map[string]domain.Variable
	// failures makes specific keys fail with a given error (publishing errors, permissions).
	failures map[string]error
}

// LibraryFile is the on-disk shape of a variable library.
type LibraryFile struct {
	Variables []domain.Variable `yaml:"variables" json:"variables"`
}

// NewLibrary creates a library with the given variables published.
func NewLibrary(vars ...domain.Variable) *Library {
	l := &Library{
		vars:     make(map[string]domain.Variable),
		failures: make(map[string]error),
	}
	for _, v := range vars {
		l.Publish(v)
	}
	return l
}

// LoadLibrary reads a YAML or JSON library file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	var file LibraryFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse library %s: %w", path, err)
	}

	for i, v := range file.Variables {
		if v.Key == "" {
			return nil, fmt.Errorf("library %s: variable #%d has no key", path, i)
		}
	}
	return NewLibrary(file.Variables...), nil
}

// Publish makes v importable by its key. A missing ID is derived from the key.
func (l *Library) Publish(v domain.Variable) {
	v.Key = strings.ToLower(v.Key)
	if v.ID == "" {
		v.ID = "VariableID:" + v.Key + "/0:0"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vars[v.Key] = v
	delete(l.failures, v.Key)
}

// Fail makes every import of key return err.
func (l *Library) Fail(key string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[strings.ToLower(key)] = err
}

// ImportByKey returns the variable published under key.
func (l *Library) ImportByKey(ctx context.Context, key string) (domain.Variable, error) {
	if err := ctx.Err(); err != nil {
		return domain.Variable{}, err
	}
	key = strings.ToLower(key)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if err, ok := l.failures[key]; ok {
		return domain.Variable{}, fmt.Errorf("import %s: %w", key, err)
	}
	v, ok := l.vars[key]
	if !ok {
		return domain.Variable{}, fmt.Errorf("%w: %s", domain.ErrVariableNotFound, key)
	}
	return v, nil
}

// Keys returns the published keys, sorted.
func (l *Library) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.vars))
	for k := range l.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
