package domain

// Variable is an imported design token.
type Variable struct {
	// ID is the host-scoped identifier (e.g. "VariableID:<key>/1:166").
	ID string `json:"id" yaml:"id"`
	// Key is the library-wide key the variable was imported by.
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Alias returns the binding a paint channel records for v.
func (v Variable) Alias() VariableAlias {
	return VariableAlias{Type: AliasVariable, ID: v.ID}
}
