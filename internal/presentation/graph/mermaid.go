package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/recolor/pkg/domain"
)

// Overlay marks extra rules to highlight, on top of the ones enabled in the catalog.
type Overlay struct {
	EnabledRules []string
}

// GenerateMermaid produces a Mermaid flowchart of the mapping tables.
// Sources sit on the left and the tokens they bind to on the right:
// - Style: ([Stadium])
// - Variable: [[Subroutine]]
// - Color: [/Parallelogram/]
// - Token: [Rectangle]
// Table entries are solid edges. Advanced rules are dotted edges labeled with the
// rule id and target; enabled rules get a thick highlighted link style.
// Inert entries are left out.
func GenerateMermaid(tables domain.Tables, overlay *Overlay) string {
	g := &builder{declared: make(map[string]bool)}
	g.sb.WriteString("graph LR\n")

	for _, e := range tables.Styles {
		if e.Active() {
			label := e.Key
			if e.Name != "" {
				label = e.Name
			}
			g.edge(g.node("style", e.Key, label, "([", "])"), g.token(e.MappedKey), "-->")
		}
	}
	for _, e := range tables.Variables {
		if e.Active() {
			label := shortKey(e.Key)
			if e.Name != "" {
				label = e.Name
			}
			g.edge(g.node("var", e.Key, label, "[[", "]]"), g.token(e.MappedKey), "-->")
		}
	}
	for _, e := range tables.Colors {
		if e.Active() {
			g.edge(g.node("color", e.Key, strings.ToUpper(e.Key), "[/", "/]"), g.token(e.MappedKey), "-->")
		}
	}

	highlight := make(map[string]bool)
	if overlay != nil {
		for _, id := range overlay.EnabledRules {
			highlight[id] = true
		}
	}

	var enabled []int
	for _, r := range tables.Advanced {
		var from string
		switch r.Kind {
		case domain.RuleStyle:
			from = g.node("style", r.Key, r.Key, "([", "])")
		case domain.RuleHex:
			from = g.node("color", r.Key, strings.ToUpper(r.Key), "[/", "/]")
		default:
			from = g.node("var", r.Key, shortKey(r.Key), "[[", "]]")
		}
		label := strings.ReplaceAll(fmt.Sprintf("%s (%s)", r.ID, r.Target), "\"", "'")
		idx := g.edge(from, g.token(r.MappedKey), fmt.Sprintf("-. \"%s\" .->", label))
		if r.Enabled || highlight[r.ID] {
			enabled = append(enabled, idx)
		}
	}

	g.sb.WriteString("\n    classDef token fill:#e1f5fe,stroke:#01579b,color:#000;\n")
	for _, id := range g.tokens {
		g.sb.WriteString(fmt.Sprintf("    class %s token;\n", id))
	}
	for _, idx := range enabled {
		g.sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#fbc02d,stroke-width:4px;\n", idx))
	}

	return g.sb.String()
}

type builder struct {
	sb       strings.Builder
	declared map[string]bool
	tokens   []string
	edges    int
}

// node declares a node once and returns its id.
func (g *builder) node(prefix, key, label, opener, closer string) string {
	id := prefix + "_" + sanitizeMermaidID(key)
	if !g.declared[id] {
		g.declared[id] = true
		label = strings.ReplaceAll(label, "\"", "'")
		g.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))
	}
	return id
}

func (g *builder) token(key string) string {
	id := "token_" + sanitizeMermaidID(key)
	if !g.declared[id] {
		g.tokens = append(g.tokens, id)
	}
	return g.node("token", key, shortKey(key), "[", "]")
}

// edge writes a link and returns its index for linkStyle.
func (g *builder) edge(from, to, arrow string) int {
	g.sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	g.edges++
	return g.edges - 1
}

// shortKey abbreviates a 40 character variable key for display.
func shortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:8] + "…"
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
}
