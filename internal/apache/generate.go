package apache

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samwho/ctrsnap/internal/ingress"
	"github.com/samwho/ctrsnap/internal/model"
	"github.com/samwho/ctrsnap/internal/proxyrule"
)

// DefaultConfig builds the minimal single-VirtualHost block
// traefik2apache falls back to when no base config is supplied,
// listening on serverURL's port (80 if unset) with serverURL's hostname
// as ServerName.
func DefaultConfig(serverURL string) (string, error) {
	u, err := parseServerURL(serverURL)
	if err != nil {
		return "", err
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}
	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf(`
<VirtualHost *:%s>
    ServerName %s
    ErrorLog /dev/stderr
</VirtualHost>
`, port, host), nil
}

func parseServerURL(serverURL string) (*url.URL, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}
	return url.Parse(serverURL)
}

// InsertIntoVirtualHost splices locationLines into baseLines just before
// the closing "</VirtualHost>" tag, indented to match the line
// immediately preceding it; if no such tag exists the lines are appended
// at the end instead, grounded on apache_insert2vf.
func InsertIntoVirtualHost(baseLines, locationLines []string) []string {
	insertAt := -1
	for i, l := range baseLines {
		if strings.TrimSpace(l) == "</VirtualHost>" {
			insertAt = i
			break
		}
	}
	indent := 0
	if insertAt > 0 {
		prev := baseLines[insertAt-1]
		indent = len(prev) - len(strings.TrimLeft(prev, " \t"))
	}
	if insertAt < 0 {
		insertAt = len(baseLines)
	}

	out := make([]string, 0, len(baseLines)+len(locationLines)+2)
	out = append(out, baseLines[:insertAt]...)
	out = append(out, "")
	pad := strings.Repeat(" ", indent)
	for _, l := range locationLines {
		out = append(out, pad+l)
	}
	out = append(out, "")
	out = append(out, baseLines[insertAt:]...)
	return out
}

// Generate renders cfg into baseConf (or a synthesized default when
// baseConf is empty), inserting one <Location> block per router/service
// pair before </VirtualHost>, and returns the full configuration text
//.
func Generate(cfg ingress.TraefikConfig, baseConf, serverURL string, preferIPAddress bool, log *logrus.Logger) (string, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	base := baseConf
	if base == "" {
		var err error
		base, err = DefaultConfig(serverURL)
		if err != nil {
			return "", err
		}
	}

	if cfg.Http == nil {
		return "", &model.SchemaError{Address: "http", Reason: "traefik config has no http section"}
	}

	var res []string
	for _, name := range cfg.Http.RouterServiceNames() {
		router := cfg.Http.Routers[name]
		svc := cfg.Http.Services[name]

		rule, _ := router.Rule.Get()
		locationKeys, unsupportedRules := proxyrule.ParseRule(rule)
		for _, r := range unsupportedRules {
			log.WithError(&model.UnsupportedRule{Rule: r}).Info("skipping rule clause")
		}
		if len(locationKeys) == 0 {
			continue
		}

		var backendURLs []string
		if svc.LoadBalancer != nil {
			backendURLs = trimHTTPScheme(svc.LoadBalancer.BackendURLs(preferIPAddress))
		}
		if len(backendURLs) == 0 {
			log.Warnf("router %s: no backend resolved, skipping", name)
			continue
		}

		var backendTo string
		if len(backendURLs) == 1 {
			backendTo = "http://" + backendURLs[0]
		} else {
			res = append(res, fmt.Sprintf("<Proxy balancer://%s>", name))
			for _, b := range backendURLs {
				res = append(res, fmt.Sprintf("  BalancerMember http://%s", b))
			}
			res = append(res, "</Proxy>")
			backendTo = "balancer://" + name
		}

		middlewares := proxyrule.ResolveMiddlewares(router.MiddlewareNames(), cfg.Http.Middlewares)
		chain := proxyrule.BuildChain(middlewares)
		for _, kind := range chain.Unsupported {
			log.WithError(&model.UnsupportedMiddleware{Kind: kind, Name: name}).Info("skipping middleware")
		}
		mdlconf := chainLines(chain)

		for _, lk := range locationKeys {
			switch {
			case len(lk) == 1:
				res = append(res, fmt.Sprintf("<Location %s>", lk[0]))
			case len(lk) == 2 && lk[0] == "=":
				res = append(res, fmt.Sprintf(`<Location ~ "^%s$">`, regexp.QuoteMeta(lk[1])))
			default:
				continue
			}
			res = append(res, "  ProxyPass "+backendTo)
			res = append(res, "  ProxyPassReverse "+backendTo)
			for _, l := range mdlconf {
				res = append(res, "  "+l)
			}
			res = append(res, "</Location>")
		}
	}

	baseLines := strings.Split(base, "\n")
	out := InsertIntoVirtualHost(baseLines, res)
	return strings.Join(out, "\n") + "\n", nil
}

// chainLines renders a proxyrule.Chain to its Apache directive-line
// sequence, grounded on
// middleware_compress_apache/middleware_headers_apache/middleware2apache.
func chainLines(chain proxyrule.Chain) []string {
	var out []string
	if chain.CompressOn {
		if len(chain.CompressIncludedTypes) > 0 {
			out = append(out, "AddOutputFilterByType DEFLATE "+strings.Join(chain.CompressIncludedTypes, " "))
		} else {
			out = append(out, "SetOutputFilter DEFLATE")
		}
	}
	for _, h := range chain.RequestHeaders {
		out = append(out, fmt.Sprintf("RequestHeader append %s %s", h.Key, h.Value))
	}
	for _, h := range chain.ResponseHeaders {
		out = append(out, fmt.Sprintf("Header append %s %s", h.Key, h.Value))
	}
	if chain.HasRewrite() {
		out = append(out, "RewriteEngine On")
		out = append(out, fmt.Sprintf("RewriteRule %s %s", chain.RewritePattern(), chain.RewriteReplacement()))
	}
	return out
}

func trimHTTPScheme(urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = strings.TrimPrefix(u, "http://")
	}
	return out
}
