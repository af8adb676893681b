package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/samwho/ctrsnap/internal/aggregator"
	"github.com/samwho/ctrsnap/internal/ingress"
	"github.com/samwho/ctrsnap/internal/merge"
	"github.com/samwho/ctrsnap/internal/model"
)

// loadTraefikConfig resolves the traefik-file source for
// traefik2nginx/traefik2apache/traefik-load: a path decodes by extension
// (.yml/.yaml, .json, .toml), an empty path aggregates live from the
// container engine instead, mirroring traefik2nginx's `dict | str` union
// in original_source/dlabel/traefik.py.
func loadTraefikConfig(ctx context.Context, path string) (ingress.TraefikConfig, error) {
	var raw map[string]any

	if path == "" {
		c, inv, err := connect(ctx)
		if err != nil {
			return ingress.TraefikConfig{}, err
		}
		defer c.Close()

		cfg, err := aggregator.Aggregate(ctx, inv, newLogger())
		if err != nil {
			return ingress.TraefikConfig{}, err
		}
		return *cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ingress.TraefikConfig{}, model.WrapCLIError(model.ExitGeneralError, "reading traefik file "+path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return ingress.TraefikConfig{}, model.WrapCLIError(model.ExitSchemaError, "parsing traefik file "+path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return ingress.TraefikConfig{}, model.WrapCLIError(model.ExitSchemaError, "parsing traefik file "+path, err)
		}
	default:
		return ingress.TraefikConfig{}, model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("unrecognized traefik file extension: %s", path))
	}

	lowered, _ := merge.LowercaseKeys(raw).(map[string]any)
	return ingress.FromMap(lowered), nil
}

// readBaseConf returns the base proxy config's text, or "" when path is
// unset so the caller's generator falls back to its own minimal default.
func readBaseConf(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "reading base config "+path, err)
	}
	return string(data), nil
}

// readNginxBaseConf is readBaseConf plus one nginx-specific extension: a
// .json/.jsonc path is treated as a JSONC-encoded directive tree (the
// shape internal/nginx/ast.go defines) and rendered back to nginx syntax
// before being handed to nginx.Generate. Apache's base config has no
// such tree form, so apache call sites use readBaseConf directly.
func readNginxBaseConf(path string) (string, error) {
	if path == "" || !isJSONCPath(path) {
		return readBaseConf(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "reading base config "+path, err)
	}
	return decodeJSONCBaseConf(data)
}
