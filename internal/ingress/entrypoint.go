package ingress

// EntrypointConfig models entrypoints.<name>. Most fields are themselves
// typed dict[str, Any] in the source (original_source/dlabel/traefik_conf.py)
// and are preserved untyped here too; only Address (consumed by the nginx
// listener-port derivation) is pulled out as a typed field.
type EntrypointConfig struct {
	Address Value[string]

	Extra map[string]any
}

func EntrypointFromMap(m map[string]any) EntrypointConfig {
	e := EntrypointConfig{}
	if v, ok := decodeString(m["address"]); ok {
		e.Address = Some(v)
	}
	e.Extra = popped(m, "address")
	return e
}

func (e EntrypointConfig) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setString(cm, "address", e.Address)
	return cm.withExtra(e.Extra)
}

// TlsConfig models the top-level tls section. Fields beyond presence are
// not consumed by any component in this repository; kept as Extra.
type TlsConfig struct {
	Extra map[string]any
}

func TlsFromMap(m map[string]any) TlsConfig {
	return TlsConfig{Extra: popped(m)}
}

func (t TlsConfig) CanonicalMap() map[string]any {
	return newCanonicalMap().withExtra(t.Extra)
}
