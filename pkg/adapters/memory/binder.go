package memory

import (
	"fmt"

	"github.com/aretw0/recolor/pkg/domain"
)

// Binder implements ports.PaintBinder the way the host does: it returns a new paint
// whose channel carries a variable alias and leaves the literal color untouched.
type Binder struct{}

// Bind binds channel of paint to v.
func (Binder) Bind(paint domain.Paint, channel string, v domain.Variable) (domain.Paint, error) {
	if !paint.IsSolid() {
		return paint, fmt.Errorf("cannot bind %s on %s paint", channel, paint.Type)
	}
	if channel != domain.ChannelColor {
		return paint, fmt.Errorf("unsupported paint channel %q", channel)
	}
	if v.ID == "" {
		return paint, fmt.Errorf("variable %q has no id", v.Key)
	}
	out := paint.Clone()
	if out.BoundVariables == nil {
		out.BoundVariables = make(map[string]domain.VariableAlias, 1)
	}
	out.BoundVariables[channel] = v.Alias()
	return out, nil
}
