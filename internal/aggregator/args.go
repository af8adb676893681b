package aggregator

import (
	"strings"

	"github.com/samwho/ctrsnap/internal/merge"
)

// ExtractArgs implements step 1's "args" source: every element
// of the argument vector starting with "--" and containing "=" is split
// once on "="; the left side (stripped of "--") is split on "." as an
// address, with the right as the value.
func ExtractArgs(args []string) map[string]any {
	out := map[string]any{}
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			continue
		}
		eq := strings.IndexByte(a, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimPrefix(a[:eq], "--")
		value := a[eq+1:]
		segments := strings.Split(key, ".")
		out = merge.SetBySegments(out, segments, value)
	}
	return out
}
