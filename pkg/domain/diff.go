package domain

// PaintsChanged compares two snapshots of a paint list.
// Comparison is structural and order-sensitive. A nil binding map and an empty one are equal.
func PaintsChanged(before, after []Paint) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if !paintEqual(before[i], after[i]) {
			return true
		}
	}
	return false
}

func paintEqual(a, b Paint) bool {
	if a.Type != b.Type || a.Color != b.Color {
		return false
	}
	if len(a.BoundVariables) != len(b.BoundVariables) {
		return false
	}
	for channel, alias := range a.BoundVariables {
		other, ok := b.BoundVariables[channel]
		if !ok || other != alias {
			return false
		}
	}
	return true
}
