package apache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwho/ctrsnap/internal/ingress"
)

func singleBackendConfig() ingress.TraefikConfig {
	m := map[string]any{
		"http": map[string]any{
			"routers": map[string]any{
				"r1": map[string]any{
					"rule":        "Path(`/health`)",
					"middlewares": []any{"m1"},
					"service":     "r1",
				},
			},
			"services": map[string]any{
				"r1": map[string]any{
					"loadbalancer": map[string]any{
						"server": map[string]any{"host": "hostname", "port": 9999},
					},
				},
			},
			"middlewares": map[string]any{
				"m1": map[string]any{"compress": true},
			},
		},
	}
	return ingress.FromMap(m)
}

func TestGenerateSingleBackend(t *testing.T) {
	cfg := singleBackendConfig()
	out, err := Generate(cfg, "", "http://hostname", false, nil)
	require.NoError(t, err)

	assert.Contains(t, out, `<Location ~ "^/health$">`)
	assert.Contains(t, out, "ProxyPass http://hostname:9999")
	assert.Contains(t, out, "ProxyPassReverse http://hostname:9999")
	assert.Contains(t, out, "SetOutputFilter DEFLATE")
	assert.Contains(t, out, "</VirtualHost>")
}

func TestGenerateMultiBackendUsesBalancer(t *testing.T) {
	m := map[string]any{
		"http": map[string]any{
			"routers": map[string]any{
				"r1": map[string]any{"rule": "PathPrefix(`/`)", "service": "r1"},
			},
			"services": map[string]any{
				"r1": map[string]any{
					"loadbalancer": map[string]any{
						"servers": []any{
							map[string]any{"url": "http://a:1"},
							map[string]any{"url": "http://b:2"},
						},
					},
				},
			},
		},
	}
	cfg := ingress.FromMap(m)
	out, err := Generate(cfg, "", "http://hostname", false, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "<Proxy balancer://r1>")
	assert.Contains(t, out, "BalancerMember http://a:1")
	assert.Contains(t, out, "BalancerMember http://b:2")
	assert.Contains(t, out, "ProxyPass balancer://r1")
}

func TestInsertIntoVirtualHostPreservesIndent(t *testing.T) {
	base := []string{
		"<VirtualHost *:80>",
		"    ServerName example.com",
		"</VirtualHost>",
	}
	out := InsertIntoVirtualHost(base, []string{"<Location /x>", "</Location>"})
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "    <Location /x>")
	assert.Contains(t, joined, "    </Location>")
}

func TestInsertIntoVirtualHostAppendsWhenNoTag(t *testing.T) {
	base := []string{"ServerRoot /etc/apache"}
	out := InsertIntoVirtualHost(base, []string{"extra"})
	assert.Equal(t, []string{"ServerRoot /etc/apache", "", "extra", ""}, out)
}
