package ingress

// HttpRouter models http.routers.<name>. Grounded on
// HttpRouter in original_source/dlabel/traefik_conf.py.
type HttpRouter struct {
	Entrypoints Value[[]string]
	Rule        Value[string]
	RuleSyntax  Value[string]
	Middlewares Value[[]string] // router.middlewares, CSV-or-list
	Service     Value[string]
	Priority    Value[int]
	TLS         AnyValue // dict[str, Any] | bool in the source

	Extra map[string]any
}

// RouterFromMap decodes one http.routers.<name> entry. Unknown keys are
// preserved in Extra rather than rejected (lenient mode is the default;
// model.SchemaError only fires in strict mode, which this decoder
// does not implement here — validation is the CLI's concern).
func RouterFromMap(m map[string]any) HttpRouter {
	r := HttpRouter{}
	if v, ok := decodeCSVList(m["entrypoints"]); ok {
		r.Entrypoints = Some(v)
	}
	if v, ok := decodeString(m["rule"]); ok {
		r.Rule = Some(v)
	}
	if v, ok := decodeString(m["rulesyntax"]); ok {
		r.RuleSyntax = Some(v)
	}
	if v, ok := decodeCSVList(m["middlewares"]); ok {
		r.Middlewares = Some(v)
	}
	if v, ok := decodeString(m["service"]); ok {
		r.Service = Some(v)
	}
	if v, ok := decodeInt(m["priority"]); ok {
		r.Priority = Some(v)
	}
	if v, ok := m["tls"]; ok {
		r.TLS = SomeAny(v)
	}
	r.Extra = popped(m, "entrypoints", "rule", "rulesyntax", "middlewares", "service", "priority", "tls")
	return r
}

// CanonicalMap re-encodes the router, omitting anything never set.
func (r HttpRouter) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setStringList(cm, "entrypoints", r.Entrypoints)
	setString(cm, "rule", r.Rule)
	setString(cm, "rulesyntax", r.RuleSyntax)
	setStringList(cm, "middlewares", r.Middlewares)
	setString(cm, "service", r.Service)
	setInt(cm, "priority", r.Priority)
	setAny(cm, "tls", r.TLS)
	return cm.withExtra(r.Extra)
}

// MiddlewareNames returns router.middlewares with any "@provider" suffix
// stripped, in source order.
func (r HttpRouter) MiddlewareNames() []string {
	names, ok := r.Middlewares.Get()
	if !ok {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = stripProviderSuffix(n)
	}
	return out
}

func stripProviderSuffix(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '@' {
			return name[:i]
		}
	}
	return name
}
