package aggregator

import (
	"archive/tar"
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/model"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// buildTar packages a single file into a tar stream, matching the shape
// CopyFromContainer returns for a single-file path.
func buildTar(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{
		Name: name,
		Mode: 0644,
		Size: int64(len(content)),
	}
	require.NoError(t, tw.WriteHeader(hdr))
	_, err := tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// TestAggregateLabelOnlyIngress covers a container whose routing comes
// entirely from traefik labels, with no args/envs/file providers involved.
func TestAggregateLabelOnlyIngress(t *testing.T) {
	fake := inventory.NewFake()
	fake.Containers = []model.ContainerSnapshot{
		{
			ID:   "c1",
			Name: "proj1_ctn1",
			Labels: map[string]string{
				"traefik.enable":                                     "true",
				"traefik.http.routers.ctn1.rule":                     "Path(`/`)",
				"traefik.http.services.ctn1.loadbalancer.server.port": "8080",
			},
			Networks: map[string]model.NetworkAttachment{"bridge": {IPAddress: "1.2.3.4"}},
		},
		{
			ID:   "c2",
			Name: "proj1_ctn2",
			Labels: map[string]string{
				"traefik.enable":                                     "true",
				"traefik.http.routers.ctn2.rule":                     "PathPrefix(`/ctn2`)",
				"traefik.http.services.ctn2.loadbalancer.server.port": "9999",
				"traefik.api":                                        "true",
			},
		},
	}

	cfg, err := Aggregate(context.Background(), fake, silentLogger())
	require.NoError(t, err)
	require.NotNil(t, cfg.Http)

	r1 := cfg.Http.Routers["ctn1"]
	rule1, _ := r1.Rule.Get()
	assert.Equal(t, "Path(`/`)", rule1)

	s1 := cfg.Http.Services["ctn1"]
	require.NotNil(t, s1.LoadBalancer)
	require.NotNil(t, s1.LoadBalancer.Server)
	host1, _ := s1.LoadBalancer.Server.Host.Get()
	ip1, _ := s1.LoadBalancer.Server.IPAddress.Get()
	port1, _ := s1.LoadBalancer.Server.Port.Get()
	assert.Equal(t, "proj1_ctn1", host1)
	assert.Equal(t, "1.2.3.4", ip1)
	assert.Equal(t, 8080, port1)

	s2 := cfg.Http.Services["ctn2"]
	host2, _ := s2.LoadBalancer.Server.Host.Get()
	ip2, _ := s2.LoadBalancer.Server.IPAddress.Get()
	assert.Equal(t, "proj1_ctn2", host2)
	assert.Equal(t, "", ip2)

	assert.True(t, cfg.Api.Set)
	assert.Equal(t, map[string]any{}, cfg.Api.Raw)
}

// TestAggregateArgsMergedWithEnvs verifies that the same address set via
// both args and envs (with envs in upper case) decodes to one lowercased
// entry.
func TestAggregateArgsMergedWithEnvs(t *testing.T) {
	fake := inventory.NewFake()
	fake.Containers = []model.ContainerSnapshot{
		{
			ID:    "tfk1",
			Name:  "traefik",
			Image: "traefik:v3.0",
			Args:  []string{"--providers.docker.exposedbydefault=false"},
			Env:   []string{"TRAEFIK_PROVIDERS_DOCKER_EXPOSEDBYDEFAULT=false"},
		},
	}

	cfg, err := Aggregate(context.Background(), fake, silentLogger())
	require.NoError(t, err)
	require.NotNil(t, cfg.Providers)
	val, ok := cfg.Providers.Docker.Raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, val["exposedbydefault"])
}

// TestAggregateFileProvider verifies a mounted provider file's contents
// merge into the aggregated config.
func TestAggregateFileProvider(t *testing.T) {
	fake := inventory.NewFake()
	fake.Containers = []model.ContainerSnapshot{
		{
			ID:    "tfk1",
			Name:  "traefik",
			Image: "traefik:v3.0",
			Args:  []string{"--providers.file.filename=/conf/traefik.yml"},
		},
	}

	yamlContent := "api:\n  insecure: {}\nentrypoints:\n  web:\n    address: \":80\"\n"
	fake.Archives["tfk1:/conf/traefik.yml"] = inventory.FakeArchive{
		Data: buildTar(t, "traefik.yml", yamlContent),
	}

	cfg, err := Aggregate(context.Background(), fake, silentLogger())
	require.NoError(t, err)
	require.NotNil(t, cfg.Entrypoints)
	web, ok := cfg.Entrypoints["web"]
	require.True(t, ok)
	addr, _ := web.Address.Get()
	assert.Equal(t, ":80", addr)
	assert.True(t, cfg.Api.Set)
}

func TestExtractArgsSplitsOnEquals(t *testing.T) {
	got := ExtractArgs([]string{"--providers.docker.exposedbydefault=false", "--no-equals", "positional"})
	providers := got["providers"].(map[string]any)
	docker := providers["docker"].(map[string]any)
	assert.Equal(t, false, docker["exposedbydefault"])
}

func TestExtractEnvsStripsPrefixAndSplitsOnUnderscore(t *testing.T) {
	got := ExtractEnvs([]string{"TRAEFIK_API_INSECURE=true", "UNRELATED=x"})
	api := got["API"].(map[string]any)
	assert.Equal(t, map[string]any{}, api["INSECURE"])
	_, ok := got["UNRELATED"]
	assert.False(t, ok)
}
