package ingress

// CompressMiddleware models http.middlewares.<name>.compress.
type CompressMiddleware struct {
	ExcludedContentTypes Value[[]string]
	IncludedContentTypes Value[[]string]
	MinResponseBodyBytes Value[int]
	DefaultEncoding      Value[string]
	Encodings            Value[[]string]

	Extra map[string]any
}

func compressFromMap(m map[string]any) CompressMiddleware {
	c := CompressMiddleware{}
	if v, ok := decodeCSVList(m["excludedcontenttypes"]); ok {
		c.ExcludedContentTypes = Some(v)
	}
	if v, ok := decodeCSVList(m["includedcontenttypes"]); ok {
		c.IncludedContentTypes = Some(v)
	}
	if v, ok := decodeInt(m["minresponsebodybytes"]); ok {
		c.MinResponseBodyBytes = Some(v)
	}
	if v, ok := decodeString(m["defaultencoding"]); ok {
		c.DefaultEncoding = Some(v)
	}
	if v, ok := decodeCSVList(m["encodings"]); ok {
		c.Encodings = Some(v)
	}
	c.Extra = popped(m, "excludedcontenttypes", "includedcontenttypes", "minresponsebodybytes", "defaultencoding", "encodings")
	return c
}

func (c CompressMiddleware) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setStringList(cm, "excludedcontenttypes", c.ExcludedContentTypes)
	setStringList(cm, "includedcontenttypes", c.IncludedContentTypes)
	setInt(cm, "minresponsebodybytes", c.MinResponseBodyBytes)
	setString(cm, "defaultencoding", c.DefaultEncoding)
	setStringList(cm, "encodings", c.Encodings)
	return cm.withExtra(c.Extra)
}

// HeadersMiddleware models http.middlewares.<name>.headers.
type HeadersMiddleware struct {
	CustomRequestHeaders  Value[map[string]string]
	CustomResponseHeaders Value[map[string]string]

	// order records each map's keys as orderedKeys returns them, which is
	// Go map iteration order of the decoded map: source insertion order is
	// not kept, and the order is not stable between runs.
	requestOrder  []string
	responseOrder []string

	Extra map[string]any
}

func headersFromMap(m map[string]any) HeadersMiddleware {
	h := HeadersMiddleware{}
	if v, ok := decodeStringMap(m["customrequestheaders"]); ok {
		h.CustomRequestHeaders = Some(v)
		h.requestOrder = orderedKeys(m["customrequestheaders"])
	}
	if v, ok := decodeStringMap(m["customresponseheaders"]); ok {
		h.CustomResponseHeaders = Some(v)
		h.responseOrder = orderedKeys(m["customresponseheaders"])
	}
	h.Extra = popped(m, "customrequestheaders", "customresponseheaders")
	return h
}

// orderedKeys best-efforts a stable key order. map[string]any loses Go map
// iteration order by construction, so callers that need byte-stable
// emission (the nginx/apache emitters) should sort; this helper exists so
// a future ordered-map decode path has a single seam to improve.
func orderedKeys(raw any) []string {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (h HeadersMiddleware) RequestHeaderKeys() []string {
	if len(h.requestOrder) > 0 {
		return h.requestOrder
	}
	if v, ok := h.CustomRequestHeaders.Get(); ok {
		return orderedKeys(toAnyMap(v))
	}
	return nil
}

func (h HeadersMiddleware) ResponseHeaderKeys() []string {
	if len(h.responseOrder) > 0 {
		return h.responseOrder
	}
	if v, ok := h.CustomResponseHeaders.Get(); ok {
		return orderedKeys(toAnyMap(v))
	}
	return nil
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (h HeadersMiddleware) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	if v, ok := h.CustomRequestHeaders.Get(); ok {
		cm["customrequestheaders"] = v
	}
	if v, ok := h.CustomResponseHeaders.Get(); ok {
		cm["customresponseheaders"] = v
	}
	return cm.withExtra(h.Extra)
}

// StripprefixMiddleware models http.middlewares.<name>.stripprefix.
type StripprefixMiddleware struct {
	Prefixes   Value[[]string]
	ForceSlash Value[bool]

	Extra map[string]any
}

func stripprefixFromMap(m map[string]any) StripprefixMiddleware {
	s := StripprefixMiddleware{}
	if v, ok := decodeCSVList(m["prefixes"]); ok {
		s.Prefixes = Some(v)
	}
	if v, ok := decodeBool(m["forceslash"]); ok {
		s.ForceSlash = Some(v)
	}
	s.Extra = popped(m, "prefixes", "forceslash")
	return s
}

func (s StripprefixMiddleware) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setStringList(cm, "prefixes", s.Prefixes)
	setBool(cm, "forceslash", s.ForceSlash)
	return cm.withExtra(s.Extra)
}

// StripprefixregexMiddleware models http.middlewares.<name>.stripprefixregex.
type StripprefixregexMiddleware struct {
	Regex Value[[]string]

	Extra map[string]any
}

func stripprefixregexFromMap(m map[string]any) StripprefixregexMiddleware {
	s := StripprefixregexMiddleware{}
	if v, ok := decodeCSVList(m["regex"]); ok {
		s.Regex = Some(v)
	}
	s.Extra = popped(m, "regex")
	return s
}

func (s StripprefixregexMiddleware) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setStringList(cm, "regex", s.Regex)
	return cm.withExtra(s.Extra)
}

// AddprefixMiddleware models http.middlewares.<name>.addprefix.
type AddprefixMiddleware struct {
	Prefix Value[string]

	Extra map[string]any
}

func addprefixFromMap(m map[string]any) AddprefixMiddleware {
	a := AddprefixMiddleware{}
	if v, ok := decodeString(m["prefix"]); ok {
		a.Prefix = Some(v)
	}
	a.Extra = popped(m, "prefix")
	return a
}

func (a AddprefixMiddleware) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setString(cm, "prefix", a.Prefix)
	return cm.withExtra(a.Extra)
}

// passthroughMiddlewareKeys are the ~20 recognized-but-not-emitted
// middleware kinds: parsed so their presence is known
// (UnsupportedMiddleware can be reported) but never rendered by either
// dialect emitter.
var passthroughMiddlewareKeys = []string{
	"basicauth", "buffering", "chain", "circuitbreaker", "contenttype",
	"digestauth", "errors", "forwardauth", "grpcweb", "ipwhitelist",
	"ipallowlist", "inflightreq", "passtlsclientcert", "ratelimit",
	"redirectregex", "redirectscheme", "replacepath", "replacepathregex",
	"retry",
}

// HttpMiddleware models http.middlewares.<name>: a tagged union by field
// presence. Exactly one of the "kind" fields is expected to be
// set per instance in practice, but the model tolerates more than one
// being present (the source does too; it's a dict with many optional
// keys).
type HttpMiddleware struct {
	AddPrefix        *AddprefixMiddleware
	Compress         AnyValue // CompressMiddleware | bool
	Headers          *HeadersMiddleware
	StripPrefix      *StripprefixMiddleware
	StripPrefixRegex *StripprefixregexMiddleware

	// Passthrough records which of the ~20 recognized-but-unemitted kinds
	// were present on this instance, for UnsupportedMiddleware reporting.
	Passthrough []string

	Extra map[string]any
}

func MiddlewareFromMap(m map[string]any) HttpMiddleware {
	mw := HttpMiddleware{}
	if am, ok := decodeMap(m["addprefix"]); ok {
		v := addprefixFromMap(am)
		mw.AddPrefix = &v
	}
	if v, ok := m["compress"]; ok {
		mw.Compress = SomeAny(v)
	}
	if hm, ok := decodeMap(m["headers"]); ok {
		v := headersFromMap(hm)
		mw.Headers = &v
	}
	if sm, ok := decodeMap(m["stripprefix"]); ok {
		v := stripprefixFromMap(sm)
		mw.StripPrefix = &v
	}
	if sm, ok := decodeMap(m["stripprefixregex"]); ok {
		v := stripprefixregexFromMap(sm)
		mw.StripPrefixRegex = &v
	}
	for _, k := range passthroughMiddlewareKeys {
		if _, ok := m[k]; ok {
			mw.Passthrough = append(mw.Passthrough, k)
		}
	}
	// Passthrough keys are intentionally left in Extra (not popped): they
	// carry no typed representation, but withExtra still re-emits them
	// verbatim, matching the source's "parsed but not emitted by any
	// dialect" note — "parsed" here means "presence observed", not
	// "classified".
	mw.Extra = popped(m, "addprefix", "compress", "headers", "stripprefix", "stripprefixregex")
	return mw
}

// CompressSpec decodes the Compress union: either a bool (on/off, no
// options) or a full CompressMiddleware object.
func (mw HttpMiddleware) CompressSpec() (CompressMiddleware, bool, bool) {
	if !mw.Compress.Set {
		return CompressMiddleware{}, false, false
	}
	switch v := mw.Compress.Raw.(type) {
	case bool:
		return CompressMiddleware{}, v, true
	case map[string]any:
		return compressFromMap(v), true, true
	default:
		return CompressMiddleware{}, false, false
	}
}

func (mw HttpMiddleware) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	if mw.AddPrefix != nil {
		setSub(cm, "addprefix", mw.AddPrefix.CanonicalMap())
	}
	setAny(cm, "compress", mw.Compress)
	if mw.Headers != nil {
		setSub(cm, "headers", mw.Headers.CanonicalMap())
	}
	if mw.StripPrefix != nil {
		setSub(cm, "stripprefix", mw.StripPrefix.CanonicalMap())
	}
	if mw.StripPrefixRegex != nil {
		setSub(cm, "stripprefixregex", mw.StripPrefixRegex.CanonicalMap())
	}
	return cm.withExtra(mw.Extra)
}
