package proxyrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwho/ctrsnap/internal/ingress"
)

func TestResolveMiddlewaresStripsProviderSuffix(t *testing.T) {
	table := map[string]ingress.HttpMiddleware{
		"gzip": {Compress: ingress.SomeAny(true)},
	}
	resolved := ResolveMiddlewares([]string{"gzip@docker", "missing@docker"}, table)
	require.Len(t, resolved, 1)
	_, on, isSet := resolved[0].CompressSpec()
	assert.True(t, isSet)
	assert.True(t, on)
}

func TestBuildChainCompress(t *testing.T) {
	mw := ingress.MiddlewareFromMap(map[string]any{
		"compress": map[string]any{
			"includedcontenttypes": []any{"text/html"},
			"minresponsebodybytes": 1024,
		},
	})
	c := BuildChain([]ingress.HttpMiddleware{mw})
	assert.True(t, c.CompressOn)
	assert.Equal(t, []string{"text/html"}, c.CompressIncludedTypes)
	assert.Equal(t, 1024, c.CompressMinResponseBytes)
	assert.True(t, c.HasCompressMinBytes)
}

func TestBuildChainHeaders(t *testing.T) {
	mw := ingress.MiddlewareFromMap(map[string]any{
		"headers": map[string]any{
			"customrequestheaders":  map[string]any{"X-Forwarded-Proto": "https"},
			"customresponseheaders": map[string]any{"X-Frame-Options": "DENY"},
		},
	})
	c := BuildChain([]ingress.HttpMiddleware{mw})
	require.Len(t, c.RequestHeaders, 1)
	assert.Equal(t, HeaderKV{Key: "X-Forwarded-Proto", Value: "https"}, c.RequestHeaders[0])
	require.Len(t, c.ResponseHeaders, 1)
	assert.Equal(t, HeaderKV{Key: "X-Frame-Options", Value: "DENY"}, c.ResponseHeaders[0])
}

func TestBuildChainStripAndAddPrefix(t *testing.T) {
	strip := ingress.MiddlewareFromMap(map[string]any{
		"stripprefix": map[string]any{"prefixes": []any{"/api/v1"}},
	})
	add := ingress.MiddlewareFromMap(map[string]any{
		"addprefix": map[string]any{"prefix": "/internal"},
	})
	c := BuildChain([]ingress.HttpMiddleware{strip, add})
	require.True(t, c.HasRewrite())
	assert.Equal(t, "/api/v1(.*)", c.RewritePattern())
	assert.Equal(t, "/internal$1", c.RewriteReplacement())
}

func TestBuildChainNoRewriteWhenDefault(t *testing.T) {
	mw := ingress.MiddlewareFromMap(map[string]any{"compress": true})
	c := BuildChain([]ingress.HttpMiddleware{mw})
	assert.False(t, c.HasRewrite())
}

func TestBuildChainUnsupportedPassthrough(t *testing.T) {
	mw := ingress.MiddlewareFromMap(map[string]any{"retry": map[string]any{"attempts": 3}})
	c := BuildChain([]ingress.HttpMiddleware{mw})
	assert.Contains(t, c.Unsupported, "retry")
}
