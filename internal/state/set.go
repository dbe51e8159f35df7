package state

import "slices"

// AppendUnique appends v unless it is already present. The returned bool
// reports whether the slice changed. The input slice is never modified.
func AppendUnique(items []string, v string) ([]string, bool) {
	if slices.Contains(items, v) {
		return items, false
	}
	out := make([]string, len(items), len(items)+1)
	copy(out, items)
	return append(out, v), true
}

// Without removes every occurrence of v, keeping order.
func Without(items []string, v string) ([]string, bool) {
	if !slices.Contains(items, v) {
		return items, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != v {
			out = append(out, item)
		}
	}
	return out, true
}
