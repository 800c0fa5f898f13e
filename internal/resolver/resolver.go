// Package resolver decides, per paint slot, which variable a paint list should be bound to.
//
// Precedence for one paint list (first success wins for a slot):
//
//  1. Advanced rules matching the target, in list order. One application per list.
//  2. The style table, when the node has a style binding for the target. Binds the
//     first SOLID paint and suppresses tier 3 for the list.
//  3. The variable table (bound paints) or the color table (literal paints), per SOLID paint.
package resolver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/recolor/internal/keys"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

// Lookup resolves a mapped id to an imported variable.
type Lookup interface {
	Lookup(id string) (domain.Variable, bool)
}

// Tier identifies the precedence level that produced a binding.
type Tier int

const (
	TierAdvanced Tier = iota + 1
	TierStyle
	TierPaint
)

func (t Tier) String() string {
	switch t {
	case TierAdvanced:
		return "advanced"
	case TierStyle:
		return "style"
	case TierPaint:
		return "paint"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Binding is one rebound paint slot.
type Binding struct {
	Index      int
	Tier       Tier
	VariableID string
}

// Plan is the result of resolving one paint list. Nothing is written to the node;
// the caller applies ClearStyle and Paints.
type Plan struct {
	NodeID string
	Target domain.PaintTarget

	// Paints is a working copy of the list with every binding applied.
	Paints []domain.Paint
	Bound  []Binding

	// ClearStyle is set when the style binding of Target must be detached.
	ClearStyle bool
	// FromStyle is set when the style table produced the plan and tier 3 was skipped.
	FromStyle bool
	// Rule is the id of the advanced rule that was applied, if any.
	Rule string
}

// Dirty reports whether at least one slot was rebound.
func (p Plan) Dirty() bool {
	return len(p.Bound) > 0
}

type rule struct {
	domain.AdvancedMappingEntry
	key string // canonical match key
}

// Resolver holds the indexed tables of one run. It is safe to reuse across nodes.
type Resolver struct {
	styles    map[string]string
	variables map[string]string
	colors    map[string]string
	rules     map[domain.PaintTarget][]rule
	binder    ports.PaintBinder
	logger    *slog.Logger
}

// New indexes tables and the enabled advanced rules.
func New(tables domain.Tables, rules []domain.AdvancedMappingEntry, binder ports.PaintBinder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Resolver{
		styles:    index(tables.Styles, keys.Extract),
		variables: index(tables.Variables, keys.Extract),
		colors:    index(tables.Colors, hexKey),
		rules:     make(map[domain.PaintTarget][]rule),
		binder:    binder,
		logger:    logger,
	}
	for _, entry := range rules {
		if !entry.Enabled || !entry.Target.Valid() {
			continue
		}
		key, ok := ruleKey(entry)
		if !ok {
			logger.Debug("advanced rule key unrecognized", "rule", entry.ID, "key", entry.Key)
			continue
		}
		r.rules[entry.Target] = append(r.rules[entry.Target], rule{AdvancedMappingEntry: entry, key: key})
	}
	return r
}

// index maps normalized keys to mapped keys. Inert entries are skipped and the first entry wins.
func index(entries []domain.MappingEntry, normalize func(string) (string, bool)) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.Active() {
			continue
		}
		key, ok := normalize(e.Key)
		if !ok {
			continue
		}
		if _, seen := m[key]; !seen {
			m[key] = e.MappedKey
		}
	}
	return m
}

func hexKey(s string) (string, bool) {
	s = keys.NormalizeHex(s)
	return s, strings.HasPrefix(s, "#")
}

func ruleKey(entry domain.AdvancedMappingEntry) (string, bool) {
	switch entry.Kind {
	case domain.RuleHex:
		return hexKey(entry.Key)
	case domain.RuleStyle, domain.RuleVariable:
		return keys.Extract(entry.Key)
	}
	return "", false
}

// Resolve computes the bindings for the target paint list of node.
func (r *Resolver) Resolve(node domain.Paintable, target domain.PaintTarget, vars Lookup) Plan {
	plan := Plan{
		NodeID: node.ID(),
		Target: target,
		Paints: domain.ClonePaints(node.Paints(target)),
	}

	claimed := r.applyAdvanced(&plan, node, vars)
	if r.applyStyle(&plan, node, vars, claimed) {
		plan.FromStyle = true
		return plan
	}
	r.applyPerPaint(&plan, vars, claimed)
	return plan
}

// ResolvePaints is Resolve without the style table. The engine falls back to it
// when the host rejects the writes of a style plan.
func (r *Resolver) ResolvePaints(node domain.Paintable, target domain.PaintTarget, vars Lookup) Plan {
	plan := Plan{
		NodeID: node.ID(),
		Target: target,
		Paints: domain.ClonePaints(node.Paints(target)),
	}
	claimed := r.applyAdvanced(&plan, node, vars)
	r.applyPerPaint(&plan, vars, claimed)
	return plan
}

// applyAdvanced applies the first matching rule to the first paint it matches and
// returns that paint's index, or -1.
//
// A style rule whose style matches is applied even when no SOLID paint could be
// bound: the style binding is detached and later rules are not consulted.
func (r *Resolver) applyAdvanced(plan *Plan, node domain.Paintable, vars Lookup) int {
	for _, rl := range r.rules[plan.Target] {
		v, ok := vars.Lookup(rl.MappedKey)
		if !ok {
			continue
		}
		if rl.Kind == domain.RuleStyle {
			if !styleMatches(node.StyleID(plan.Target), rl.key) {
				continue
			}
			plan.Rule = rl.ID
			plan.ClearStyle = true
		}
		for i, p := range plan.Paints {
			if !p.IsSolid() || !paintMatches(rl, p) {
				continue
			}
			if !r.bind(plan, i, v, TierAdvanced) {
				continue
			}
			plan.Rule = rl.ID
			return i
		}
		if rl.Kind == domain.RuleStyle {
			return -1
		}
	}
	return -1
}

// applyStyle reports whether the style table handled the list (tier 3 is then skipped).
func (r *Resolver) applyStyle(plan *Plan, node domain.Paintable, vars Lookup, claimed int) bool {
	if plan.ClearStyle {
		return false
	}
	key, ok := keys.Extract(node.StyleID(plan.Target))
	if !ok {
		return false
	}
	mapped, ok := r.styles[key]
	if !ok {
		return false
	}
	v, ok := vars.Lookup(mapped)
	if !ok {
		r.logger.Debug("style mapping target not imported", "node", plan.NodeID, "style", key, "mapped", mapped)
		return false
	}

	plan.ClearStyle = true
	for i, p := range plan.Paints {
		if !p.IsSolid() {
			continue
		}
		if i == claimed {
			return true
		}
		return r.bind(plan, i, v, TierStyle)
	}
	return false
}

func (r *Resolver) applyPerPaint(plan *Plan, vars Lookup, claimed int) {
	for i, p := range plan.Paints {
		if i == claimed || !p.IsSolid() {
			continue
		}
		mapped, ok := r.lookupPaint(p)
		if !ok {
			continue
		}
		v, ok := vars.Lookup(mapped)
		if !ok {
			continue
		}
		r.bind(plan, i, v, TierPaint)
	}
}

func (r *Resolver) lookupPaint(p domain.Paint) (string, bool) {
	if bound := p.BoundID(domain.ChannelColor); bound != "" {
		key, ok := keys.Extract(bound)
		if !ok {
			return "", false
		}
		mapped, ok := r.variables[key]
		return mapped, ok
	}
	mapped, ok := r.colors[keys.Hex(p.Color)]
	return mapped, ok
}

func (r *Resolver) bind(plan *Plan, i int, v domain.Variable, tier Tier) bool {
	bound, err := r.safeBind(plan.Paints[i], v)
	if err != nil {
		r.logger.Warn("paint bind failed, skipping paint",
			"node", plan.NodeID, "target", plan.Target, "index", i, "variable", v.ID, "err", err)
		return false
	}
	if !domain.PaintsChanged(plan.Paints[i:i+1], []domain.Paint{bound}) {
		// Already bound to v; nothing to write.
		return true
	}
	plan.Paints[i] = bound
	plan.Bound = append(plan.Bound, Binding{Index: i, Tier: tier, VariableID: v.ID})
	return true
}

func (r *Resolver) safeBind(p domain.Paint, v domain.Variable) (out domain.Paint, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("binder panicked: %v", rec)
		}
	}()
	return r.binder.Bind(p.Clone(), domain.ChannelColor, v)
}

func styleMatches(styleID, key string) bool {
	got, ok := keys.Extract(styleID)
	return ok && got == key
}

func paintMatches(rl rule, p domain.Paint) bool {
	switch rl.Kind {
	case domain.RuleStyle:
		return true
	case domain.RuleHex:
		return strings.EqualFold(keys.Hex(p.Color), rl.key)
	case domain.RuleVariable:
		got, ok := keys.Extract(p.BoundID(domain.ChannelColor))
		return ok && got == rl.key
	}
	return false
}
