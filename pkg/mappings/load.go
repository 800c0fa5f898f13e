package mappings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/recolor/pkg/domain"
)

// Load reads a YAML or JSON table file and validates it.
func Load(path string) (domain.Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Tables{}, fmt.Errorf("failed to read mappings: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes table data. YAML is a superset of JSON, isJSON only selects the stricter decoder.
func Parse(data []byte, isJSON bool) (domain.Tables, error) {
	var tables domain.Tables
	var err error
	if isJSON {
		err = json.Unmarshal(data, &tables)
	} else {
		err = yaml.Unmarshal(data, &tables)
	}
	if err != nil {
		return domain.Tables{}, fmt.Errorf("failed to parse mappings: %w", err)
	}
	if err := Validate(tables); err != nil {
		return domain.Tables{}, err
	}
	return tables, nil
}

// Validate checks every table entry has a key and every advanced rule is well formed
// with a unique id. All problems are reported together.
func Validate(tables domain.Tables) error {
	var errs []error
	groups := []struct {
		name    string
		entries []domain.MappingEntry
	}{
		{"styles", tables.Styles},
		{"variables", tables.Variables},
		{"colors", tables.Colors},
	}
	for _, g := range groups {
		for i, e := range g.entries {
			if strings.TrimSpace(e.Key) == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: missing key", g.name, i))
			}
		}
	}

	seen := make(map[string]bool, len(tables.Advanced))
	for _, r := range tables.Advanced {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate rule id %q", domain.ErrInvalidRule, r.ID))
		}
		seen[r.ID] = true
	}
	return errors.Join(errs...)
}

// Enable returns copies of the rules named by ids with Enabled set, in catalog order.
// Rules not named are returned disabled. Unknown ids are an error.
func Enable(rules []domain.AdvancedMappingEntry, ids ...string) ([]domain.AdvancedMappingEntry, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	out := make([]domain.AdvancedMappingEntry, len(rules))
	for i, r := range rules {
		r.Enabled = want[r.ID]
		delete(want, r.ID)
		out[i] = r
	}
	if len(want) > 0 {
		var unknown []string
		for _, id := range ids {
			if want[id] {
				unknown = append(unknown, id)
				delete(want, id)
			}
		}
		return nil, fmt.Errorf("%w: unknown rule ids %s", domain.ErrInvalidRule, strings.Join(unknown, ", "))
	}
	return out, nil
}
