package ingress

// canonicalMap builds a map[string]any by setting the given key/value
// pairs only for Values that are Set, then overlays Extra. This is the Go
// equivalent of pydantic's model_dump(exclude_none=True,
// exclude_defaults=True, exclude_unset=True): a field that was never
// assigned contributes nothing to the output.
type canonicalMap map[string]any

func newCanonicalMap() canonicalMap {
	return canonicalMap{}
}

func setString(m canonicalMap, key string, v Value[string]) {
	if val, ok := v.Get(); ok {
		m[key] = val
	}
}

func setBool(m canonicalMap, key string, v Value[bool]) {
	if val, ok := v.Get(); ok {
		m[key] = val
	}
}

func setInt(m canonicalMap, key string, v Value[int]) {
	if val, ok := v.Get(); ok {
		m[key] = val
	}
}

func setStringList(m canonicalMap, key string, v Value[[]string]) {
	if val, ok := v.Get(); ok {
		m[key] = val
	}
}

func setAny(m canonicalMap, key string, v AnyValue) {
	if v.Set {
		m[key] = v.Raw
	}
}

func setSub(m canonicalMap, key string, sub map[string]any) {
	if len(sub) > 0 {
		m[key] = sub
	}
}

func (m canonicalMap) withExtra(extra map[string]any) map[string]any {
	for k, v := range extra {
		if _, exists := m[k]; !exists {
			m[k] = v
		}
	}
	if len(m) == 0 {
		return nil
	}
	return map[string]any(m)
}
