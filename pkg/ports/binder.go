package ports

import "github.com/aretw0/recolor/pkg/domain"

// PaintBinder is the host's paint-binding primitive.
// Bind never mutates paint; it returns a new value with channel bound to v.
type PaintBinder interface {
	Bind(paint domain.Paint, channel string, v domain.Variable) (domain.Paint, error)
}

// BinderFunc adapts a function to PaintBinder.
type BinderFunc func(paint domain.Paint, channel string, v domain.Variable) (domain.Paint, error)

func (f BinderFunc) Bind(paint domain.Paint, channel string, v domain.Variable) (domain.Paint, error) {
	return f(paint, channel, v)
}
