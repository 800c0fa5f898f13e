package domain

import "maps"

// PaintType is the variant tag of a Paint.
type PaintType string

const (
	PaintSolid          PaintType = "SOLID"
	PaintGradientLinear PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial PaintType = "GRADIENT_RADIAL"
	PaintImage          PaintType = "IMAGE"
)

// RGB is a color with channels in [0,1].
type RGB struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// VariableAlias points a paint channel at a variable.
type VariableAlias struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id" yaml:"id"`
}

// Paint is a single fill or stroke entry.
type Paint struct {
	Type  PaintType `json:"type" yaml:"type"`
	Color RGB       `json:"color" yaml:"color"`

	// BoundVariables maps a channel (see ChannelColor) to the variable it is bound to.
	BoundVariables map[string]VariableAlias `json:"boundVariables,omitempty" yaml:"boundVariables,omitempty"`
}

// IsSolid reports whether the paint is the SOLID variant.
func (p Paint) IsSolid() bool {
	return p.Type == PaintSolid
}

// BoundID returns the variable id bound to channel, or "".
func (p Paint) BoundID(channel string) string {
	return p.BoundVariables[channel].ID
}

// Clone returns a copy that shares no mutable state with p.
func (p Paint) Clone() Paint {
	if p.BoundVariables != nil {
		p.BoundVariables = maps.Clone(p.BoundVariables)
	}
	return p
}

// ClonePaints copies a paint list. A nil list stays nil.
func ClonePaints(paints []Paint) []Paint {
	if paints == nil {
		return nil
	}
	out := make([]Paint, len(paints))
	for i, p := range paints {
		out[i] = p.Clone()
	}
	return out
}
