package merge

import "strings"

// LowercaseKeys recursively lowercases every mapping key in value. Model
// keys are always lowercase; producers of address-paths must not depend on
// case. Lists are walked element-wise; scalars pass through unchanged.
func LowercaseKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[strings.ToLower(k)] = LowercaseKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = LowercaseKeys(val)
		}
		return out
	default:
		return value
	}
}
