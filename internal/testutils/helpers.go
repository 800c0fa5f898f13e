package testutils

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/recolor/pkg/domain"
	"github.com/stretchr/testify/require"
)

// Solid builds an unbound SOLID paint from 0-255 channels.
func Solid(r, g, b int) domain.Paint {
	return domain.Paint{
		Type:  domain.PaintSolid,
		Color: domain.RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
	}
}

// BoundSolid builds a SOLID paint whose color channel is bound to variableID.
func BoundSolid(r, g, b int, variableID string) domain.Paint {
	p := Solid(r, g, b)
	p.BoundVariables = map[string]domain.VariableAlias{
		domain.ChannelColor: {Type: domain.AliasVariable, ID: variableID},
	}
	return p
}

// Node is a minimal domain.Paintable for engine-level tests.
// SetPaintsErr / ClearStyleErr make the corresponding host mutation fail.
type Node struct {
	NodeID        string
	NodeName      string
	NodeKind      domain.NodeKind
	Fills         []domain.Paint
	Strokes       []domain.Paint
	FillStyle     string
	StrokeStyle   string
	SetPaintsErr  error
	ClearStyleErr error
	SetPaintsN    int
}

func (n *Node) ID() string { return n.NodeID }
func (n *Node) Name() string { return n.NodeName }
func (n *Node) Kind() domain.NodeKind { return n.NodeKind }

func (n *Node) Paints(target domain.PaintTarget) []domain.Paint {
	if target == domain.TargetStroke {
		return domain.ClonePaints(n.Strokes)
	}
	return domain.ClonePaints(n.Fills)
}

func (n *Node) SetPaints(target domain.PaintTarget, paints []domain.Paint) error {
	if n.SetPaintsErr != nil {
		return n.SetPaintsErr
	}
	n.SetPaintsN++
	if target == domain.TargetStroke {
		n.Strokes = domain.ClonePaints(paints)
	} else {
		n.Fills = domain.ClonePaints(paints)
	}
	return nil
}

func (n *Node) StyleID(target domain.PaintTarget) string {
	if target == domain.TargetStroke {
		return n.StrokeStyle
	}
	return n.FillStyle
}

func (n *Node) ClearStyle(target domain.PaintTarget) error {
	if n.ClearStyleErr != nil {
		return n.ClearStyleErr
	}
	if target == domain.TargetStroke {
		n.StrokeStyle = ""
	} else {
		n.FillStyle = ""
	}
	return nil
}

// Selection is a ports.SceneGraph over a fixed list of roots.
type Selection []domain.Node

func (s Selection) Selection(context.Context) ([]domain.Node, error) {
	return s, nil
}

// RecordingEmitter captures emitted events. Safe for concurrent use.
type RecordingEmitter struct {
	mu     sync.Mutex
	Events []domain.Event
}

func (e *RecordingEmitter) Emit(_ context.Context, ev domain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, ev)
	return nil
}

// Types returns the event types in emission order.
func (e *RecordingEmitter) Types() []domain.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.EventType, len(e.Events))
	for i, ev := range e.Events {
		out[i] = ev.Type
	}
	return out
}

// Find returns the first event of type t. It fails the test if there is none.
func (e *RecordingEmitter) Find(t *testing.T, typ domain.EventType) domain.Event {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range e.Events {
		if ev.Type == typ {
			return ev
		}
	}
	require.Failf(t, "event not emitted", "no %q event in %d events", typ, len(e.Events))
	return domain.Event{}
}

// Notification is one captured operator notification.
type Notification struct {
	Message string
	IsError bool
}

// RecordingNotifier captures notifications. Safe for concurrent use.
type RecordingNotifier struct {
	mu    sync.Mutex
	Items []Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, message string, isError bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Items = append(n.Items, Notification{Message: message, IsError: isError})
}

// Errors returns the error notifications only.
func (n *RecordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, it := range n.Items {
		if it.IsError {
			out = append(out, it.Message)
		}
	}
	return out
}
