package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeMapsRecurse(t *testing.T) {
	dst := map[string]any{"a": map[string]any{"x": 1, "y": 2}}
	src := map[string]any{"a": map[string]any{"y": 3, "z": 4}, "b": "new"}

	got := Merge(any(dst), any(src)).(map[string]any)

	a := got["a"].(map[string]any)
	assert.Equal(t, 1, a["x"])
	assert.Equal(t, 3, a["y"]) // right wins on overlap
	assert.Equal(t, 4, a["z"])
	assert.Equal(t, "new", got["b"])
}

func TestMergeListsConcatenateNoDedup(t *testing.T) {
	dst := []any{"p1", "p2"}
	src := []any{"p2", "p3"}

	got := Merge(any(dst), any(src)).([]any)
	assert.Equal(t, []any{"p1", "p2", "p2", "p3"}, got)
}

func TestMergeScalarRightWins(t *testing.T) {
	got := Merge(any("old"), any("new"))
	assert.Equal(t, "new", got)
}

func TestMergeStructureMismatchRightWins(t *testing.T) {
	dst := map[string]any{"k": "v"}
	got := Merge(any(dst), any("scalar"))
	assert.Equal(t, "scalar", got)
}

func TestMergeLeftAbsorptiveForUnset(t *testing.T) {
	a := map[string]any{"k": "v"}
	assert.Equal(t, any(a), Merge(any(a), nil))
	assert.Equal(t, any(a), Merge(nil, any(a)))
}

func TestMergeTreesOrderPrecedence(t *testing.T) {
	fromConf := map[string]any{"http": map[string]any{"routers": map[string]any{"r1": "conf"}}}
	fromEnvs := map[string]any{"http": map[string]any{"routers": map[string]any{"r2": "env"}}}
	fromArgs := map[string]any{"http": map[string]any{"routers": map[string]any{"r1": "arg"}}}
	fromLabel := map[string]any{"http": map[string]any{"routers": map[string]any{"r1": "label"}}}

	got := MergeTrees(fromConf, fromEnvs, fromArgs, fromLabel)
	routers := got["http"].(map[string]any)["routers"].(map[string]any)
	assert.Equal(t, "label", routers["r1"]) // label wins
	assert.Equal(t, "env", routers["r2"])
}

func TestSetByAddressNestsSegments(t *testing.T) {
	dst := map[string]any{}
	got := SetByAddress(dst, "providers.docker.exposedbydefault", "false")
	providers := got["providers"].(map[string]any)
	docker := providers["docker"].(map[string]any)
	assert.Equal(t, false, docker["exposedbydefault"])
}

func TestSetByAddressTruePresenceMarker(t *testing.T) {
	got := SetByAddress(map[string]any{}, "api", "true")
	assert.Equal(t, map[string]any{}, got["api"])
}

func TestSetByAddressDisjointOrderIndependent(t *testing.T) {
	a := SetByAddress(map[string]any{}, "http.routers.r1.rule", "Path(`/`)")
	a = SetByAddress(a, "http.services.s1.loadbalancer.server.port", 8080)

	b := SetByAddress(map[string]any{}, "http.services.s1.loadbalancer.server.port", 8080)
	b = SetByAddress(b, "http.routers.r1.rule", "Path(`/`)")

	assert.Equal(t, a, b)
}

func TestLowercaseKeysRecursive(t *testing.T) {
	in := map[string]any{
		"Http": map[string]any{
			"Routers": map[string]any{
				"R1": map[string]any{"Rule": "Path(`/`)"},
			},
		},
	}
	got := LowercaseKeys(in).(map[string]any)
	http := got["http"].(map[string]any)
	routers := http["routers"].(map[string]any)
	r1 := routers["r1"].(map[string]any)
	assert.Equal(t, "Path(`/`)", r1["rule"])
}
