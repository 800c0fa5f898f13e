package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/recolor/pkg/domain"
)

// NodeSpec is the document form of a scene node.
// A nil Fills or Strokes means the node does not expose that list; such nodes are
// not Paintable. An empty list is still a list.
type NodeSpec struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name,omitempty" json:"name,omitempty"`
	Type          domain.NodeKind `yaml:"type" json:"type"`
	Fills         *[]domain.Paint `yaml:"fills,omitempty" json:"fills,omitempty"`
	Strokes       *[]domain.Paint `yaml:"strokes,omitempty" json:"strokes,omitempty"`
	FillStyleID   string          `yaml:"fillStyleId,omitempty" json:"fillStyleId,omitempty"`
	StrokeStyleID string          `yaml:"strokeStyleId,omitempty" json:"strokeStyleId,omitempty"`
	Children      []*NodeSpec     `yaml:"children,omitempty" json:"children,omitempty"`
}

// Document is the on-disk shape of a scene.
type Document struct {
	// Selection lists the selected node ids. Empty selects every top-level node.
	Selection []string    `yaml:"selection,omitempty" json:"selection,omitempty"`
	Nodes     []*NodeSpec `yaml:"nodes" json:"nodes"`
}

// containerKinds can enumerate descendants.
var containerKinds = []domain.NodeKind{
	domain.KindFrame,
	domain.KindGroup,
	domain.KindComponent,
	domain.KindComponentSet,
	domain.KindInstance,
	domain.KindSection,
}

// Scene implements ports.SceneGraph over a Document.
// Nodes mutate the document in place. Scene is not safe for concurrent runs;
// serialize conversions with a ports.Locker.
type Scene struct {
	doc       *Document
	byID      map[string]*NodeSpec
	wrapped   map[*NodeSpec]domain.Node
	selection []string
}

// NewScene validates doc and wraps its nodes.
func NewScene(doc *Document) (*Scene, error) {
	if doc == nil {
		doc = &Document{}
	}
	s := &Scene{
		doc:     doc,
		byID:    make(map[string]*NodeSpec),
		wrapped: make(map[*NodeSpec]domain.Node),
	}
	for _, spec := range doc.Nodes {
		if err := s.wrap(spec); err != nil {
			return nil, err
		}
	}
	if err := s.Select(doc.Selection...); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadScene reads a YAML or JSON scene document.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	var doc Document
	if isJSON(path) {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	return NewScene(&doc)
}

func (s *Scene) wrap(spec *NodeSpec) error {
	if spec == nil {
		return fmt.Errorf("scene contains an empty node")
	}
	if spec.ID == "" {
		return fmt.Errorf("node %q has no id", spec.Name)
	}
	if _, dup := s.byID[spec.ID]; dup {
		return fmt.Errorf("duplicate node id %q", spec.ID)
	}
	isContainer := slices.Contains(containerKinds, spec.Type)
	if len(spec.Children) > 0 && !isContainer {
		return fmt.Errorf("node %q of kind %s cannot have children", spec.ID, spec.Type)
	}
	isPaintable := spec.Fills != nil && spec.Strokes != nil

	b := base{spec: spec}
	p := paintable{spec: spec}
	c := composite{scene: s, spec: spec}

	var n domain.Node
	switch {
	case isPaintable && isContainer:
		n = &paintedContainerNode{base: b, paintable: p, composite: c}
	case isPaintable:
		n = &shapeNode{base: b, paintable: p}
	case isContainer:
		n = &containerNode{base: b, composite: c}
	default:
		n = &plainNode{base: b}
	}
	s.byID[spec.ID] = spec
	s.wrapped[spec] = n

	for _, child := range spec.Children {
		if err := s.wrap(child); err != nil {
			return err
		}
	}
	return nil
}

// Select replaces the selection. No ids selects every top-level node.
func (s *Scene) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := s.byID[id]; !ok {
			return fmt.Errorf("selected node %q not found", id)
		}
	}
	s.selection = slices.Clone(ids)
	s.doc.Selection = slices.Clone(ids)
	return nil
}

// Selection returns the selected nodes in selection order.
func (s *Scene) Selection(ctx context.Context) ([]domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.selection) == 0 {
		roots := make([]domain.Node, 0, len(s.doc.Nodes))
		for _, spec := range s.doc.Nodes {
			roots = append(roots, s.wrapped[spec])
		}
		return roots, nil
	}
	roots := make([]domain.Node, 0, len(s.selection))
	for _, id := range s.selection {
		roots = append(roots, s.wrapped[s.byID[id]])
	}
	return roots, nil
}

// Node returns the wrapped node with id.
func (s *Scene) Node(id string) (domain.Node, bool) {
	spec, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.wrapped[spec], true
}

// Document returns the live document, including every mutation applied so far.
func (s *Scene) Document() *Document {
	return s.doc
}

// Marshal encodes the document as JSON when format is "json", YAML otherwise.
func (s *Scene) Marshal(format string) ([]byte, error) {
	if strings.EqualFold(format, "json") {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(s.doc)
}

// Save writes the document to path, choosing the format by extension.
func (s *Scene) Save(path string) error {
	format := "yaml"
	if isJSON(path) {
		format = "json"
	}
	data, err := s.Marshal(format)
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

type base struct {
	spec *NodeSpec
}

func (b base) ID() string            { return b.spec.ID }
func (b base) Name() string          { return b.spec.Name }
func (b base) Kind() domain.NodeKind { return b.spec.Type }

type paintable struct {
	spec *NodeSpec
}

func (p paintable) list(target domain.PaintTarget) *[]domain.Paint {
	if target == domain.TargetStroke {
		return p.spec.Strokes
	}
	return p.spec.Fills
}

func (p paintable) Paints(target domain.PaintTarget) []domain.Paint {
	return domain.ClonePaints(*p.list(target))
}

func (p paintable) SetPaints(target domain.PaintTarget, paints []domain.Paint) error {
	if !target.Valid() {
		return fmt.Errorf("unknown paint target %q", target)
	}
	next := domain.ClonePaints(paints)
	if next == nil {
		next = []domain.Paint{}
	}
	*p.list(target) = next
	return nil
}

func (p paintable) StyleID(target domain.PaintTarget) string {
	if target == domain.TargetStroke {
		return p.spec.StrokeStyleID
	}
	return p.spec.FillStyleID
}

func (p paintable) ClearStyle(target domain.PaintTarget) error {
	switch target {
	case domain.TargetFill:
		p.spec.FillStyleID = ""
	case domain.TargetStroke:
		p.spec.StrokeStyleID = ""
	default:
		return fmt.Errorf("unknown paint target %q", target)
	}
	return nil
}

type composite struct {
	scene *Scene
	spec  *NodeSpec
}

// FindAll walks descendants depth-first in document order.
func (c composite) FindAll(kinds []domain.NodeKind) []domain.Node {
	var out []domain.Node
	var walk func(children []*NodeSpec)
	walk = func(children []*NodeSpec) {
		for _, child := range children {
			if slices.Contains(kinds, child.Type) {
				out = append(out, c.scene.wrapped[child])
			}
			walk(child.Children)
		}
	}
	walk(c.spec.Children)
	return out
}

type shapeNode struct {
	base
	paintable
}

type containerNode struct {
	base
	composite
}

type paintedContainerNode struct {
	base
	paintable
	composite
}

type plainNode struct {
	base
}

// PaintList returns a paint list pointer for building NodeSpec values.
// PaintList() yields an empty (but present) list.
func PaintList(paints ...domain.Paint) *[]domain.Paint {
	list := append([]domain.Paint{}, paints...)
	return &list
}
