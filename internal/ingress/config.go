package ingress

import "sort"

// HttpConfig models the top-level http section: routers, services,
// middlewares, serverstransports.
type HttpConfig struct {
	Middlewares       map[string]HttpMiddleware
	Routers           map[string]HttpRouter
	Services          map[string]HttpService
	ServersTransports map[string]map[string]any

	Extra map[string]any
}

func HttpConfigFromMap(m map[string]any) HttpConfig {
	h := HttpConfig{}
	if mm, ok := decodeMap(m["middlewares"]); ok {
		h.Middlewares = make(map[string]HttpMiddleware, len(mm))
		for name, raw := range mm {
			if rm, ok := decodeMap(raw); ok {
				h.Middlewares[name] = MiddlewareFromMap(rm)
			}
		}
	}
	if rm, ok := decodeMap(m["routers"]); ok {
		h.Routers = make(map[string]HttpRouter, len(rm))
		for name, raw := range rm {
			if em, ok := decodeMap(raw); ok {
				h.Routers[name] = RouterFromMap(em)
			}
		}
	}
	if sm, ok := decodeMap(m["services"]); ok {
		h.Services = make(map[string]HttpService, len(sm))
		for name, raw := range sm {
			if em, ok := decodeMap(raw); ok {
				h.Services[name] = ServiceFromMap(em)
			}
		}
	}
	if stm, ok := decodeMap(m["serverstransports"]); ok {
		h.ServersTransports = make(map[string]map[string]any, len(stm))
		for name, raw := range stm {
			if em, ok := decodeMap(raw); ok {
				h.ServersTransports[name] = em
			}
		}
	}
	h.Extra = popped(m, "middlewares", "routers", "services", "serverstransports")
	return h
}

func (h HttpConfig) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	if len(h.Middlewares) > 0 {
		out := make(map[string]any, len(h.Middlewares))
		for name, mw := range h.Middlewares {
			out[name] = mw.CanonicalMap()
		}
		cm["middlewares"] = out
	}
	if len(h.Routers) > 0 {
		out := make(map[string]any, len(h.Routers))
		for name, r := range h.Routers {
			out[name] = r.CanonicalMap()
		}
		cm["routers"] = out
	}
	if len(h.Services) > 0 {
		out := make(map[string]any, len(h.Services))
		for name, s := range h.Services {
			out[name] = s.CanonicalMap()
		}
		cm["services"] = out
	}
	if len(h.ServersTransports) > 0 {
		out := make(map[string]any, len(h.ServersTransports))
		for name, s := range h.ServersTransports {
			out[name] = s
		}
		cm["serverstransports"] = out
	}
	return cm.withExtra(h.Extra)
}

// RouterServiceNames returns the names of routers whose named service (the
// router's service field, or the router's own name when that field is
// unset) exists in Services, sorted for deterministic iteration since Go
// map iteration order is otherwise random.
func (h HttpConfig) RouterServiceNames() []string {
	var names []string
	for rname, r := range h.Routers {
		svcName, ok := r.Service.Get()
		if !ok {
			svcName = rname
		}
		if _, exists := h.Services[svcName]; exists {
			names = append(names, rname)
		}
	}
	sort.Strings(names)
	return names
}

// TraefikConfig is the top-level ingress config tree: {http,
// tcp, udp, tls, entrypoints, providers, api, accesslog, experimental,
// log, metrics, tracing, certificatesresolvers, spiffe}.
type TraefikConfig struct {
	Http        *HttpConfig
	Tls         *TlsConfig
	Entrypoints map[string]EntrypointConfig
	Providers   *ProviderConfig

	// Sections with no typed consumer in this repository; the source
	// types them as dict[str, Any] too.
	Tcp                   AnyValue
	Udp                   AnyValue
	Api                   AnyValue
	AccessLog             AnyValue
	Experimental          AnyValue
	Log                   AnyValue
	Metrics               AnyValue
	Tracing               AnyValue
	CertificatesResolvers AnyValue
	Spiffe                AnyValue

	Extra map[string]any
}

// FromMap builds a TraefikConfig from a lowercased, merged generic tree
// (the output of the Addressed Merge Core). This is the boundary between
// the untyped merge pipeline and the typed model consumers (aggregator
// callers, proxyrule, nginx/apache emitters) operate against.
func FromMap(m map[string]any) TraefikConfig {
	c := TraefikConfig{}
	if hm, ok := decodeMap(m["http"]); ok {
		h := HttpConfigFromMap(hm)
		c.Http = &h
	}
	if tm, ok := decodeMap(m["tls"]); ok {
		t := TlsFromMap(tm)
		c.Tls = &t
	}
	if em, ok := decodeMap(m["entrypoints"]); ok {
		c.Entrypoints = make(map[string]EntrypointConfig, len(em))
		for name, raw := range em {
			if rm, ok := decodeMap(raw); ok {
				c.Entrypoints[name] = EntrypointFromMap(rm)
			}
		}
	}
	if pm, ok := decodeMap(m["providers"]); ok {
		p := ProviderFromMap(pm)
		c.Providers = &p
	}
	setAnyField := func(key string, dst *AnyValue) {
		if v, ok := m[key]; ok {
			*dst = SomeAny(v)
		}
	}
	setAnyField("tcp", &c.Tcp)
	setAnyField("udp", &c.Udp)
	setAnyField("api", &c.Api)
	setAnyField("accesslog", &c.AccessLog)
	setAnyField("experimental", &c.Experimental)
	setAnyField("log", &c.Log)
	setAnyField("metrics", &c.Metrics)
	setAnyField("tracing", &c.Tracing)
	setAnyField("certificatesresolvers", &c.CertificatesResolvers)
	setAnyField("spiffe", &c.Spiffe)

	c.Extra = popped(m, "http", "tls", "entrypoints", "providers", "tcp", "udp",
		"api", "accesslog", "experimental", "log", "metrics", "tracing",
		"certificatesresolvers", "spiffe")
	return c
}

// CanonicalMap re-encodes the whole tree, omitting every field that was
// never set, unset, or defaulted — matching pydantic's
// exclude_unset/exclude_defaults/exclude_none serialization.
func (c TraefikConfig) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	if c.Http != nil {
		setSub(cm, "http", c.Http.CanonicalMap())
	}
	if c.Tls != nil {
		setSub(cm, "tls", c.Tls.CanonicalMap())
	}
	if len(c.Entrypoints) > 0 {
		out := make(map[string]any, len(c.Entrypoints))
		for name, e := range c.Entrypoints {
			out[name] = e.CanonicalMap()
		}
		cm["entrypoints"] = out
	}
	if c.Providers != nil {
		setSub(cm, "providers", c.Providers.CanonicalMap())
	}
	setAny(cm, "tcp", c.Tcp)
	setAny(cm, "udp", c.Udp)
	setAny(cm, "api", c.Api)
	setAny(cm, "accesslog", c.AccessLog)
	setAny(cm, "experimental", c.Experimental)
	setAny(cm, "log", c.Log)
	setAny(cm, "metrics", c.Metrics)
	setAny(cm, "tracing", c.Tracing)
	setAny(cm, "certificatesresolvers", c.CertificatesResolvers)
	setAny(cm, "spiffe", c.Spiffe)
	return cm.withExtra(c.Extra)
}
