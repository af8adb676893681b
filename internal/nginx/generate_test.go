package nginx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwho/ctrsnap/internal/ingress"
)

func scenarioFourConfig() ingress.TraefikConfig {
	m := map[string]any{
		"http": map[string]any{
			"routers": map[string]any{
				"r1": map[string]any{
					"rule":        "PathPrefix(`/hello`)",
					"middlewares": []any{"m1", "m2", "m3"},
					"service":     "r1",
				},
			},
			"services": map[string]any{
				"r1": map[string]any{
					"loadbalancer": map[string]any{
						"server": map[string]any{
							"host": "hostname",
							"port": 9999,
						},
					},
				},
			},
			"middlewares": map[string]any{
				"m1": map[string]any{
					"stripprefix": map[string]any{"prefixes": []any{"/hello"}},
				},
				"m2": map[string]any{
					"compress": map[string]any{
						"includedcontenttypes": []any{"text/html", "text/plain"},
						"minresponsebodybytes": 1024,
					},
				},
				"m3": map[string]any{
					"headers": map[string]any{
						"customrequestheaders":  map[string]any{"x-req": "v1"},
						"customresponseheaders": map[string]any{"x-res": "v1"},
					},
				},
			},
		},
	}
	return ingress.FromMap(m)
}

func TestGenerateScenarioFour(t *testing.T) {
	cfg := scenarioFourConfig()
	out, err := Generate(cfg, "", "http://hostname", false, nil)
	require.NoError(t, err)

	for _, want := range []string{
		"location /hello",
		"proxy_pass http://hostname:9999",
		"rewrite /hello(.*) /$1 break",
		"gzip on",
		"gzip_types text/html text/plain",
		"gzip_min_length 1024",
		"proxy_set_header x-req v1",
		"add_header x-res v1",
	} {
		assert.Contains(t, out, want, "missing %q in generated config:\n%s", want, out)
	}
}

func TestFindServerBlock(t *testing.T) {
	confs, err := Parse(`
http {
    server {
        listen 80;
        server_name example.com;
    }
}
`)
	require.NoError(t, err)
	srv := FindServerBlock(confs, "example.com")
	require.NotNil(t, srv)
	assert.Equal(t, "server", srv.Directive)
}

func TestFindServerBlockNoMatch(t *testing.T) {
	confs, err := Parse(`http { server { server_name other.com; } }`)
	require.NoError(t, err)
	assert.Nil(t, FindServerBlock(confs, "example.com"))
}

func TestParseEmitRoundTrip(t *testing.T) {
	src := `events { worker_connections 512; }
http {
    server {
        listen 80;
    }
}
`
	confs, err := Parse(src)
	require.NoError(t, err)
	out := Build(confs)
	assert.True(t, strings.Contains(out, "worker_connections 512;"))
	assert.True(t, strings.Contains(out, "listen 80;"))
}

func TestParseHandlesComments(t *testing.T) {
	confs, err := Parse(`# top level comment
events {}
`)
	require.NoError(t, err)
	require.Len(t, confs, 2)
	assert.Equal(t, "#", confs[0].Directive)
	assert.Equal(t, "top level comment", confs[0].Comment)
}

func TestDefaultConfigUsesHostnameAndPort(t *testing.T) {
	text, err := DefaultConfig("http://example.com:8080")
	require.NoError(t, err)
	assert.Contains(t, text, "listen 8080")
	assert.Contains(t, text, "server_name example.com")
}
