package domain

// ConvertRequest is the inbound "convert" request.
type ConvertRequest struct {
	// AdvancedRules are the rules the operator selected. An empty list is valid.
	AdvancedRules []AdvancedMappingEntry `json:"advancedRules" mapstructure:"advancedRules"`
}

// EnabledRules returns the rules with Enabled set, in request order.
func (r ConvertRequest) EnabledRules() []AdvancedMappingEntry {
	var out []AdvancedMappingEntry
	for _, rule := range r.AdvancedRules {
		if rule.Enabled {
			out = append(out, rule)
		}
	}
	return out
}
