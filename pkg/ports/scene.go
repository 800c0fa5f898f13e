package ports

import (
	"context"

	"github.com/aretw0/recolor/pkg/domain"
)

// SceneGraph is the host-owned scene the engine converts.
// Nodes returned by Selection may implement domain.Paintable and/or domain.Composite.
type SceneGraph interface {
	// Selection returns the selected root nodes in selection order.
	Selection(ctx context.Context) ([]domain.Node, error)
}
