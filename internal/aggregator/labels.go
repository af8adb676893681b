package aggregator

import (
	"strconv"
	"strings"

	"github.com/samwho/ctrsnap/internal/merge"
)

const traefikLabelPrefix = "traefik."

// ExtractLabels implements step 2: for every label whose key
// starts with "traefik.", strip that prefix and treat the remainder as an
// address. If the address matches
// "http.services.<name>.loadbalancer.server.port", additionally synthesize
// two companion entries at the same service: "…server.host" =
// containerName and "…server.ipaddress" = firstNetworkAddress (or ""), and
// coerce the port value to an integer.
func ExtractLabels(labels map[string]string, containerName, firstNetworkAddr string) map[string]any {
	out := map[string]any{}
	for key, value := range labels {
		if !strings.HasPrefix(key, traefikLabelPrefix) {
			continue
		}
		address := strings.TrimPrefix(key, traefikLabelPrefix)
		segments := strings.Split(address, ".")
		out = merge.SetBySegments(out, segments, value)

		if svc, ok := loadBalancerServerPortService(segments); ok {
			port, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			out = merge.SetBySegments(out, []string{"http", "services", svc, "loadbalancer", "server", "port"}, port)
			out = merge.SetBySegments(out, []string{"http", "services", svc, "loadbalancer", "server", "host"}, containerName)
			out = merge.SetBySegments(out, []string{"http", "services", svc, "loadbalancer", "server", "ipaddress"}, firstNetworkAddr)
		}
	}
	return out
}

// loadBalancerServerPortService reports whether segments spell
// http.services.<name>.loadbalancer.server.port, returning <name>.
func loadBalancerServerPortService(segments []string) (string, bool) {
	if len(segments) != 6 {
		return "", false
	}
	if segments[0] == "http" && segments[1] == "services" && segments[3] == "loadbalancer" &&
		segments[4] == "server" && segments[5] == "port" {
		return segments[2], true
	}
	return "", false
}
