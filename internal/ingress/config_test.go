package ingress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapCanonicalMapRoundTrip(t *testing.T) {
	tree := map[string]any{
		"http": map[string]any{
			"routers": map[string]any{
				"r1": map[string]any{"rule": "Path(`/`)", "service": "s1"},
			},
			"services": map[string]any{
				"s1": map[string]any{
					"loadbalancer": map[string]any{
						"server": map[string]any{"host": "ctn1", "port": 8080},
					},
				},
			},
		},
		"api": map[string]any{},
	}

	cfg := FromMap(tree)
	out := cfg.CanonicalMap()

	cfg2 := FromMap(out)
	out2 := cfg2.CanonicalMap()

	assert.Equal(t, out, out2)
}

func TestCanonicalMapOmitsUnsetFields(t *testing.T) {
	cfg := TraefikConfig{}
	got := cfg.CanonicalMap()
	assert.Nil(t, got)
}

func TestRouterMiddlewareNamesStripsProviderSuffix(t *testing.T) {
	r := RouterFromMap(map[string]any{"middlewares": "m1@docker,m2"})
	assert.Equal(t, []string{"m1", "m2"}, r.MiddlewareNames())
}

func TestLoadBalancerBackendURLsUnionOrder(t *testing.T) {
	lb := loadBalancerFromMap(map[string]any{
		"servers": []any{
			map[string]any{"url": "http://a:80"},
			map[string]any{"url": "http://b:80"},
		},
		"server": map[string]any{"host": "ctn1", "ipaddress": "1.2.3.4", "port": 9999},
	})

	urls := lb.BackendURLs(false)
	require.Len(t, urls, 3)
	assert.Equal(t, []string{"http://a:80", "http://b:80", "http://ctn1:9999"}, urls)

	urlsIP := lb.BackendURLs(true)
	assert.Equal(t, "http://1.2.3.4:9999", urlsIP[2])
}

func TestMiddlewareCompressSpecBoolOrObject(t *testing.T) {
	mw := MiddlewareFromMap(map[string]any{"compress": true})
	_, enabled, ok := mw.CompressSpec()
	assert.True(t, ok)
	assert.True(t, enabled)

	mw2 := MiddlewareFromMap(map[string]any{"compress": map[string]any{"minresponsebodybytes": 1024}})
	spec, enabled2, ok2 := mw2.CompressSpec()
	assert.True(t, ok2)
	assert.True(t, enabled2)
	v, _ := spec.MinResponseBodyBytes.Get()
	assert.Equal(t, 1024, v)
}

func TestMiddlewareUnknownFieldsPreserved(t *testing.T) {
	mw := MiddlewareFromMap(map[string]any{"basicauth": map[string]any{"users": []any{"a:b"}}})
	assert.Contains(t, mw.Passthrough, "basicauth")
	out := mw.CanonicalMap()
	assert.Contains(t, out, "basicauth")
}

func TestHttpConfigRouterServiceNamesIntersectionSorted(t *testing.T) {
	h := HttpConfigFromMap(map[string]any{
		"routers": map[string]any{
			"zrouter": map[string]any{"service": "s1"},
			"arouter": map[string]any{"service": "missing"},
		},
		"services": map[string]any{
			"s1": map[string]any{},
		},
	})
	assert.Equal(t, []string{"zrouter"}, h.RouterServiceNames())
}
