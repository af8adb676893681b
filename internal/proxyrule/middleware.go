package proxyrule

import (
	"regexp"
	"strings"

	"github.com/samwho/ctrsnap/internal/ingress"
)

// HeaderKV is one custom request/response header, in the order
// HeadersMiddleware.RequestHeaderKeys/ResponseHeaderKeys return (Go map
// iteration order, not source insertion order).
type HeaderKV struct {
	Key   string
	Value string
}

// Chain is the dialect-neutral result of applying a router's middleware
// list, shared by both middleware2nginx and middleware2apache
// in the source they're grounded on: a compress directive, a set of
// header rewrites, and at most one prefix rewrite accumulated across the
// whole chain (strip patterns from every stripprefix/stripprefixregex
// entry accumulate into one alternation; a later addprefix entry
// overwrites an earlier one, matching the source's single add_prefix
// variable).
type Chain struct {
	CompressOn               bool
	CompressIncludedTypes    []string
	CompressMinResponseBytes int
	HasCompressMinBytes      bool

	RequestHeaders  []HeaderKV
	ResponseHeaders []HeaderKV

	stripPatterns []string
	addPrefix     string

	// Unsupported names the recognized-but-unemitted middleware kinds
	// encountered while building this chain,
	// for UnsupportedMiddleware reporting by the caller.
	Unsupported []string
}

// ResolveMiddlewares looks up a router's middleware names against the
// config's middleware table, stripping any "@provider" suffix first
//; names with no matching entry are skipped, mirroring the
// source's `if i is not None` filter.
func ResolveMiddlewares(names []string, table map[string]ingress.HttpMiddleware) []ingress.HttpMiddleware {
	var out []ingress.HttpMiddleware
	for _, name := range names {
		bare := stripProviderSuffix(name)
		if mw, ok := table[bare]; ok {
			out = append(out, mw)
		}
	}
	return out
}

func stripProviderSuffix(name string) string {
	if i := strings.IndexByte(name, '@'); i >= 0 {
		return name[:i]
	}
	return name
}

// BuildChain accumulates a Chain from a resolved middleware list, in
// order, matching middleware2nginx/middleware2apache's shared loop body.
func BuildChain(middlewares []ingress.HttpMiddleware) Chain {
	c := Chain{addPrefix: "/"}
	for _, mw := range middlewares {
		c.applyCompress(mw)
		c.applyHeaders(mw)
		c.applyStripPrefix(mw)
		c.applyAddPrefix(mw)
		c.Unsupported = append(c.Unsupported, mw.Passthrough...)
	}
	return c
}

func (c *Chain) applyCompress(mw ingress.HttpMiddleware) {
	spec, on, isSet := mw.CompressSpec()
	if !isSet || !on {
		return
	}
	c.CompressOn = true
	if v, ok := spec.IncludedContentTypes.Get(); ok && len(v) > 0 {
		c.CompressIncludedTypes = v
	}
	if v, ok := spec.MinResponseBodyBytes.Get(); ok {
		c.CompressMinResponseBytes = v
		c.HasCompressMinBytes = true
	}
}

func (c *Chain) applyHeaders(mw ingress.HttpMiddleware) {
	if mw.Headers == nil {
		return
	}
	reqValues, _ := mw.Headers.CustomRequestHeaders.Get()
	for _, k := range mw.Headers.RequestHeaderKeys() {
		c.RequestHeaders = append(c.RequestHeaders, HeaderKV{Key: k, Value: reqValues[k]})
	}
	respValues, _ := mw.Headers.CustomResponseHeaders.Get()
	for _, k := range mw.Headers.ResponseHeaderKeys() {
		c.ResponseHeaders = append(c.ResponseHeaders, HeaderKV{Key: k, Value: respValues[k]})
	}
}

func (c *Chain) applyStripPrefix(mw ingress.HttpMiddleware) {
	if mw.StripPrefix != nil {
		if prefixes, ok := mw.StripPrefix.Prefixes.Get(); ok {
			for _, p := range prefixes {
				c.stripPatterns = append(c.stripPatterns, regexp.QuoteMeta(p))
			}
		}
	}
	if mw.StripPrefixRegex != nil {
		if regexes, ok := mw.StripPrefixRegex.Regex.Get(); ok {
			c.stripPatterns = append(c.stripPatterns, regexes...)
		}
	}
}

func (c *Chain) applyAddPrefix(mw ingress.HttpMiddleware) {
	if mw.AddPrefix == nil {
		return
	}
	if prefix, ok := mw.AddPrefix.Prefix.Get(); ok && prefix != "" {
		c.addPrefix = prefix
	}
}

// HasRewrite reports whether this chain needs a rewrite/RewriteRule
// directive at all: grounded on the source's "if del_prefix or add_prefix
// != '/'" check.
func (c Chain) HasRewrite() bool {
	return len(c.stripPatterns) > 0 || c.addPrefix != "/"
}

// RewritePattern is the regex half of the rewrite directive.
func (c Chain) RewritePattern() string {
	return strings.Join(c.stripPatterns, "|") + "(.*)"
}

// RewriteReplacement is the substitution half of the rewrite directive.
func (c Chain) RewriteReplacement() string {
	return c.addPrefix + "$1"
}
