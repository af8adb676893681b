package ingress

// FileProvider models providers.file, the one provider kind the ingress
// aggregator actually acts on: if Filename or Directory is set, the
// aggregator downloads that path from the container filesystem and
// merges any .yml/.yaml/.toml files found.
type FileProvider struct {
	Filename  Value[string]
	Directory Value[string]
	Watch     Value[bool]

	Extra map[string]any
}

func FileProviderFromMap(m map[string]any) FileProvider {
	f := FileProvider{}
	if v, ok := decodeString(m["filename"]); ok {
		f.Filename = Some(v)
	}
	if v, ok := decodeString(m["directory"]); ok {
		f.Directory = Some(v)
	}
	if v, ok := decodeBool(m["watch"]); ok {
		f.Watch = Some(v)
	}
	f.Extra = popped(m, "filename", "directory", "watch")
	return f
}

func (f FileProvider) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setString(cm, "filename", f.Filename)
	setString(cm, "directory", f.Directory)
	setBool(cm, "watch", f.Watch)
	return cm.withExtra(f.Extra)
}

// ProviderConfig models the providers section. Docker presence gates
// nothing in this implementation (the aggregator always treats the
// traefik sidecar's own args/envs/labels as the docker provider's input
// regardless of whether `providers.docker` was explicitly declared); File
// is the one provider the aggregator dereferences.
type ProviderConfig struct {
	Docker AnyValue // dict[str, Any] | bool
	File   *FileProvider

	Extra map[string]any
}

func ProviderFromMap(m map[string]any) ProviderConfig {
	p := ProviderConfig{}
	if v, ok := m["docker"]; ok {
		p.Docker = SomeAny(v)
	}
	if fm, ok := decodeMap(m["file"]); ok {
		v := FileProviderFromMap(fm)
		p.File = &v
	}
	p.Extra = popped(m, "docker", "file")
	return p
}

func (p ProviderConfig) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setAny(cm, "docker", p.Docker)
	if p.File != nil {
		setSub(cm, "file", p.File.CanonicalMap())
	}
	return cm.withExtra(p.Extra)
}
