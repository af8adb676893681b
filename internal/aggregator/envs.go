package aggregator

import (
	"strings"

	"github.com/samwho/ctrsnap/internal/merge"
)

const traefikEnvPrefix = "TRAEFIK_"

// ExtractEnvs implements step 1's "envs" source: every
// environment entry starting with "TRAEFIK_" and containing "=" is split;
// the left side (after the prefix) is split on "_" as an address, case
// preserved post-prefix (the recursive lowercasing pre-pass applied later,
// before merge, is what ultimately canonicalizes case — not this step).
func ExtractEnvs(env []string) map[string]any {
	out := map[string]any{}
	for _, e := range env {
		if !strings.HasPrefix(e, traefikEnvPrefix) {
			continue
		}
		eq := strings.IndexByte(e, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimPrefix(e[:eq], traefikEnvPrefix)
		value := e[eq+1:]
		segments := strings.Split(key, "_")
		out = merge.SetBySegments(out, segments, value)
	}
	return out
}
