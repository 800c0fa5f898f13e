package domain

import "fmt"

// MappingEntry is one row of a style, variable or color lookup table.
// An entry without MappedKey is documentation only and never applied.
type MappingEntry struct {
	Key         string `json:"key" yaml:"key" mapstructure:"key"`
	MappedKey   string `json:"mappedKey,omitempty" yaml:"mappedKey,omitempty" mapstructure:"mappedKey"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	StyleType   string `json:"styleType,omitempty" yaml:"styleType,omitempty" mapstructure:"styleType"`
	Remote      bool   `json:"remote,omitempty" yaml:"remote,omitempty" mapstructure:"remote"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// Active reports whether the entry maps to something.
func (e MappingEntry) Active() bool {
	return e.MappedKey != ""
}

// RuleKind selects what an advanced rule matches on.
type RuleKind string

const (
	RuleStyle    RuleKind = "style"
	RuleHex      RuleKind = "hex"
	RuleVariable RuleKind = "variable"
)

// Valid reports whether k is a known rule kind.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleStyle, RuleHex, RuleVariable:
		return true
	}
	return false
}

// AdvancedMappingEntry is an operator-toggleable rule scoped to one paint target.
// Kind is serialized as "type" to match the payload the UI sends.
type AdvancedMappingEntry struct {
	ID          string      `json:"id" yaml:"id" mapstructure:"id"`
	Kind        RuleKind    `json:"type" yaml:"type" mapstructure:"type"`
	Key         string      `json:"key" yaml:"key" mapstructure:"key"`
	MappedKey   string      `json:"mappedKey" yaml:"mappedKey" mapstructure:"mappedKey"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Target      PaintTarget `json:"target" yaml:"target" mapstructure:"target"`
	Enabled     bool        `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// Validate checks the structural fields of the rule.
func (r AdvancedMappingEntry) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRule)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: rule %q has unknown type %q", ErrInvalidRule, r.ID, r.Kind)
	}
	if !r.Target.Valid() {
		return fmt.Errorf("%w: rule %q has unknown target %q", ErrInvalidRule, r.ID, r.Target)
	}
	if r.Key == "" || r.MappedKey == "" {
		return fmt.Errorf("%w: rule %q needs both key and mappedKey", ErrInvalidRule, r.ID)
	}
	return nil
}

// Tables holds the static lookup data of a run. Tables are read-only while a run is in progress.
type Tables struct {
	// Styles maps a style key to a variable key.
	Styles []MappingEntry `json:"styles" yaml:"styles"`
	// Variables maps a variable key to another variable key.
	Variables []MappingEntry `json:"variables" yaml:"variables"`
	// Colors maps a "#RRGGBB" literal to a variable key.
	Colors []MappingEntry `json:"colors" yaml:"colors"`
	// Advanced is the catalog of rules an operator may enable per run.
	Advanced []AdvancedMappingEntry `json:"advanced,omitempty" yaml:"advanced,omitempty"`
}
