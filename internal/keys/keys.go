// Package keys normalizes style and variable identifiers into canonical lookup keys.
package keys

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/aretw0/recolor/pkg/domain"
)

var (
	// "S:dd1673ea83ca8bbd996f8d382124ac11c7ed87dd,1:280"
	styleID = regexp.MustCompile(`^S:([a-fA-F0-9]+),`)
	// "VariableID:843f1d2c2dc02487232f0232557cf5496ceaa3dc/4:70"
	variableID = regexp.MustCompile(`^(?:VariableID|TOKEN):([a-fA-F0-9]+)/`)
	pureKey    = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
)

// Extract returns the canonical (lower-case) key embedded in a style id, a variable id
// or a bare 40-character key. ok is false for any other shape.
func Extract(id string) (key string, ok bool) {
	if m := styleID.FindStringSubmatch(id); m != nil {
		return strings.ToLower(m[1]), true
	}
	if m := variableID.FindStringSubmatch(id); m != nil {
		return strings.ToLower(m[1]), true
	}
	if pureKey.MatchString(id) {
		return strings.ToLower(id), true
	}
	return "", false
}

// Hex renders c as "#RRGGBB" (upper-case). Channels are scaled by 255 and rounded.
func Hex(c domain.RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// NormalizeHex upper-cases a "#RRGGBB" literal so that lookups are case-insensitive.
func NormalizeHex(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func channel(v float64) int {
	n := int(math.Round(v * 255))
	return max(0, min(255, n))
}
