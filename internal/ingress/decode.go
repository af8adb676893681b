package ingress

import "strconv"

// decodeCSVList implements the "CSV-or-list" coercion: a field
// declared as a list accepts either an actual list or a single
// comma-separated string, normalizing to a list. Splitting happens only
// at validation time, with no surrounding trimming.
func decodeCSVList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case string:
		return splitCSV(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		return v, true
	default:
		return nil, false
	}
}

func splitCSV(s string) []string {
	out := []string{""}
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out[len(out)-1] = s[start:i]
			out = append(out, "")
			start = i + 1
		}
	}
	out[len(out)-1] = s[start:]
	return out
}

func decodeString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

func decodeBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		if v == "true" {
			return true, true
		}
		if v == "false" {
			return false, true
		}
	}
	return false, false
}

// decodeInt coerces integer-typed fields; set-by-address delivers string
// values for label-sourced data, so this accepts numeric strings too
// (this package: "integers where the declared field type is integer").
func decodeInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func decodeMap(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	return m, ok
}

func decodeStringMap(raw any) (map[string]string, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, true
}

// popped removes a key from a shallow-copied map so callers can build an
// Extra bag of "everything we didn't model" by popping known keys off as
// they're consumed.
func popped(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
