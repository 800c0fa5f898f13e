package domain

import "slices"

// NodeKind is the host's type tag for a scene node.
type NodeKind string

const (
	KindRectangle    NodeKind = "RECTANGLE"
	KindEllipse      NodeKind = "ELLIPSE"
	KindPolygon      NodeKind = "POLYGON"
	KindStar         NodeKind = "STAR"
	KindVector       NodeKind = "VECTOR"
	KindText         NodeKind = "TEXT"
	KindFrame        NodeKind = "FRAME"
	KindComponent    NodeKind = "COMPONENT"
	KindInstance     NodeKind = "INSTANCE"
	KindComponentSet NodeKind = "COMPONENT_SET"
	KindGroup        NodeKind = "GROUP"
	KindSection      NodeKind = "SECTION"
)

// EligibleKinds is the set of kinds the collector asks the host for.
var EligibleKinds = []NodeKind{
	KindRectangle,
	KindEllipse,
	KindPolygon,
	KindStar,
	KindVector,
	KindText,
	KindFrame,
	KindComponent,
	KindInstance,
	KindComponentSet,
}

// Eligible reports whether k belongs to EligibleKinds.
func (k NodeKind) Eligible() bool {
	return slices.Contains(EligibleKinds, k)
}

// PaintTarget selects one of the two paint lists of a node.
type PaintTarget string

const (
	TargetFill   PaintTarget = "fill"
	TargetStroke PaintTarget = "stroke"
)

// Targets lists the paint targets in processing order (fills before strokes).
var Targets = []PaintTarget{TargetFill, TargetStroke}

// Valid reports whether t is a known target.
func (t PaintTarget) Valid() bool {
	return t == TargetFill || t == TargetStroke
}

// Node is a scene node owned by the host. The engine only references nodes,
// it never creates or destroys them.
type Node interface {
	ID() string
	Name() string
	Kind() NodeKind
}

// Paintable is implemented by nodes that expose both a fill list and a stroke list.
// Only Paintable nodes are eligible for conversion.
type Paintable interface {
	Node

	// Paints returns a copy of the paint list for target.
	Paints(target PaintTarget) []Paint

	// SetPaints replaces the paint list for target wholesale.
	SetPaints(target PaintTarget, paints []Paint) error

	// StyleID returns the shared style bound to target, or "" when there is none.
	StyleID(target PaintTarget) string

	// ClearStyle detaches the shared style bound to target.
	ClearStyle(target PaintTarget) error
}

// Composite is implemented by nodes that can enumerate their descendants.
type Composite interface {
	Node

	// FindAll returns every descendant whose kind is in kinds, in document order.
	FindAll(kinds []NodeKind) []Node
}
