package domain

import "time"

// Phase is a state of the conversion state machine.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseCollectingNodes    Phase = "collecting_nodes"
	PhaseLimitCheck         Phase = "limit_check"
	PhaseImportingVariables Phase = "importing_variables"
	PhaseConverting         Phase = "converting"
	PhaseComplete           Phase = "complete"
	PhaseError              Phase = "error"
	PhaseLimitExceeded      Phase = "limit_exceeded"
)

// Terminal reports whether no transition leaves p.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError || p == PhaseLimitExceeded
}

// Status is the terminal status of a run.
type Status string

const (
	StatusComplete      Status = "complete"
	StatusError         Status = "error"
	StatusLimitExceeded Status = "limit-exceeded"
)

// Outcome summarizes a conversion run.
type Outcome struct {
	// Found is the number of collected nodes (duplicates included).
	Found int `json:"found"`
	// Processed counts visited nodes.
	Processed int `json:"processed"`
	// Converted counts nodes whose fills or strokes actually changed.
	Converted int `json:"converted"`
	// StylesCleared counts paint lists whose style binding was detached.
	StylesCleared int `json:"styles_cleared,omitempty"`
	// WriteFailures counts paint lists skipped because the host rejected a write.
	WriteFailures int `json:"write_failures,omitempty"`

	Status  Status `json:"status"`
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`

	// ImportFailures lists the variable keys that failed to import.
	ImportFailures []string      `json:"import_failures,omitempty"`
	Duration       time.Duration `json:"duration"`
}
