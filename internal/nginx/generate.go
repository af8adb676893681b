package nginx

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samwho/ctrsnap/internal/ingress"
	"github.com/samwho/ctrsnap/internal/model"
	"github.com/samwho/ctrsnap/internal/proxyrule"
)

// DefaultConfig builds the minimal single-server config traefik2nginx
// falls back to when no base config is supplied, listening
// on serverURL's port (80 if unset) with serverURL's hostname as
// server_name.
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
	return fmt.Sprintf(`user nginx;
worker_processes auto;
error_log /dev/stderr notice;
events { worker_connections 512; }
http {
    server { listen %s default_server; server_name %s; }
}
`, port, host), nil
}

func parseServerURL(serverURL string) (*url.URL, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}
	return url.Parse(serverURL)
}

// FindServerBlock locates the "server" directive within an "http" block
// whose server_name arguments include name, returning a pointer into the
// original tree so the caller can append locations into it in place
// grounded on find_server_block.
func FindServerBlock(confs []Directive, name string) *Directive {
	for i := range confs {
		if confs[i].Directive != "http" {
			continue
		}
		for j := range confs[i].Block {
			srv := &confs[i].Block[j]
			if srv.Directive != "server" {
				continue
			}
			for _, sn := range Find(srv.Block, "server_name") {
				for _, a := range sn.Args {
					if a == name {
						return srv
					}
				}
			}
		}
	}
	return nil
}

// Generate renders cfg into baseConf (or a synthesized default when
// baseConf is empty), appending one location block per router/service
// pair, and returns the full serialized nginx configuration, grounded on
// traefik2nginx.
func Generate(cfg ingress.TraefikConfig, baseConf, serverURL string, preferIPAddress bool, log *logrus.Logger) (string, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	u, err := parseServerURL(serverURL)
	if err != nil {
		return "", err
	}

	var confs []Directive
	if baseConf != "" {
		confs, err = Parse(baseConf)
		if err != nil {
			return "", err
		}
	} else {
		text, err := DefaultConfig(serverURL)
		if err != nil {
			return "", err
		}
		confs, err = Parse(text)
		if err != nil {
			return "", err
		}
	}

	hostname := u.Hostname()
	if hostname == "" {
		hostname = "localhost"
	}
	target := FindServerBlock(confs, hostname)
	if target == nil {
		return "", fmt.Errorf("nginx: no server block matching %q in base config", hostname)
	}

	if cfg.Http == nil {
		return "", &model.SchemaError{Address: "http", Reason: "traefik config has no http section"}
	}

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

		middlewares := proxyrule.ResolveMiddlewares(router.MiddlewareNames(), cfg.Http.Middlewares)
		chain := proxyrule.BuildChain(middlewares)
		for _, kind := range chain.Unsupported {
			log.WithError(&model.UnsupportedMiddleware{Kind: kind, Name: name}).Info("skipping middleware")
		}

		var backendURLs []string
		if svc.LoadBalancer != nil {
			backendURLs = trimHTTPScheme(svc.LoadBalancer.BackendURLs(preferIPAddress))
		}
		if len(backendURLs) == 0 {
			log.Warnf("router %s: no backend resolved, skipping", name)
			continue
		}

		locLabel := make([]string, len(locationKeys))
		for i, lk := range locationKeys {
			locLabel[i] = strings.Join(lk, " ")
		}
		target.Block = append(target.Block, Directive{
			Directive: "#",
			Comment:   fmt.Sprintf(" %s: %s -> %s", name, strings.Join(locLabel, ", "), strings.Join(backendURLs, ", ")),
		})

		backend := backendURLs[0]
		if len(backendURLs) > 1 {
			var upstreamBlock []Directive
			for _, b := range backendURLs {
				upstreamBlock = append(upstreamBlock, Directive{Directive: "server", Args: []string{b}})
			}
			target.Block = append(target.Block, Directive{
				Directive: "upstream",
				Args:      []string{name},
				Block:     upstreamBlock,
			})
			backend = name
		}

		blk := []Directive{{Directive: "proxy_pass", Args: []string{"http://" + backend}}}
		blk = append(blk, chainDirectives(chain)...)

		for _, lk := range locationKeys {
			target.Block = append(target.Block, Directive{
				Directive: "location",
				Args:      lk,
				Block:     blk,
			})
		}
	}

	return Build(confs), nil
}

// chainDirectives renders a proxyrule.Chain to its nginx directive
// sequence: gzip/gzip_types/gzip_min_length, proxy_set_header per
// request header, add_header per response header, then a single
// rewrite ... break if the chain needs one, grounded on
// middleware_compress/middleware_headers/middleware2nginx.
func chainDirectives(chain proxyrule.Chain) []Directive {
	var out []Directive
	if chain.CompressOn {
		out = append(out, Directive{Directive: "gzip", Args: []string{"on"}})
		if len(chain.CompressIncludedTypes) > 0 {
			out = append(out, Directive{Directive: "gzip_types", Args: chain.CompressIncludedTypes})
		}
		if chain.HasCompressMinBytes {
			out = append(out, Directive{Directive: "gzip_min_length", Args: []string{strconv.Itoa(chain.CompressMinResponseBytes)}})
		}
	}
	for _, h := range chain.RequestHeaders {
		out = append(out, Directive{Directive: "proxy_set_header", Args: []string{h.Key, h.Value}})
	}
	for _, h := range chain.ResponseHeaders {
		out = append(out, Directive{Directive: "add_header", Args: []string{h.Key, h.Value}})
	}
	if chain.HasRewrite() {
		out = append(out, Directive{Directive: "rewrite", Args: []string{chain.RewritePattern(), chain.RewriteReplacement(), "break"}})
	}
	return out
}

// trimHTTPScheme strips a leading "http://" from each backend URL, since
// get_backend in the source stores bare "host:port" authorities for the
// label-derived shape but full "http://host" URLs for the servers-list
// shape; proxy_pass always re-adds "http://" itself.
func trimHTTPScheme(urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = strings.TrimPrefix(u, "http://")
	}
	return out
}
