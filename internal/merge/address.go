package merge

import "strings"

// SetByAddress builds an auxiliary tree from a dotted-path address and a
// leaf value, then merges that tree into dst and returns the result.
//
// Each segment of the address becomes a nested mapping; the last segment
// holds the value. Before setting the leaf, the literal conversions of
// this package apply: "true" becomes an empty mapping (a presence marker),
// "false" becomes the boolean false. Integer coercion where the declared
// field type is an integer is the concern of the typed model layer
// (internal/ingress), not this generic core.
func SetByAddress(dst map[string]any, address string, value any) map[string]any {
	segments := strings.Split(address, ".")
	return SetBySegments(dst, segments, value)
}

// SetBySegments is SetByAddress taking an already-split ordered sequence
// of key segments, for callers (like the label extractor) that parsed the
// address themselves.
func SetBySegments(dst map[string]any, segments []string, value any) map[string]any {
	if len(segments) == 0 {
		return dst
	}

	value = coerceLiteral(value)

	aux := map[string]any{}
	cur := aux
	for _, seg := range segments[:len(segments)-1] {
		next := map[string]any{}
		cur[seg] = next
		cur = next
	}
	cur[segments[len(segments)-1]] = value

	merged := Merge(any(dst), any(aux))
	if m, ok := merged.(map[string]any); ok {
		return m
	}
	return dst
}

// coerceLiteral applies the "true"/"false" presence-marker conversions.
// Any other value (including other strings) passes through unchanged.
func coerceLiteral(value any) any {
	if s, ok := value.(string); ok {
		switch s {
		case "true":
			return map[string]any{}
		case "false":
			return false
		}
	}
	return value
}
