package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/samwho/ctrsnap/internal/model"
	"github.com/samwho/ctrsnap/internal/nginx"
)

// decodeJSONCBaseConf reads a JSONC-encoded nginx directive tree — the
// same directive/args/block/comment/line shape internal/nginx/ast.go
// already defines — and renders it back to nginx config text, so
// --baseconf can be supplied as a commented JSON document instead of
// raw nginx syntax.
func decodeJSONCBaseConf(data []byte) (string, error) {
	var directives []nginx.Directive
	if err := json.Unmarshal(jsonc.ToJSON(data), &directives); err != nil {
		return "", model.WrapCLIError(model.ExitSchemaError, "parsing JSONC base config", err)
	}
	return nginx.Build(directives), nil
}

// isJSONCPath reports whether path's extension indicates a JSONC
// directive tree rather than raw nginx config text.
func isJSONCPath(path string) bool {
	ext := strings.ToLower(path[strings.LastIndex(path, ".")+1:])
	return ext == "json" || ext == "jsonc"
}

// ScratchConfig is the optional CLI defaults file (--config): a flat
// JSONC document overriding persistent flag defaults before cobra's own
// flag parsing applies on top of it.
type ScratchConfig struct {
	Format  string `json:"format"`
	Verbose bool   `json:"verbose"`
}

// LoadScratchConfig reads an optional JSONC scratch file. A missing file
// is not an error; callers apply whatever zero-valued fields come back.
func LoadScratchConfig(path string) (ScratchConfig, error) {
	var cfg ScratchConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, model.WrapCLIError(model.ExitGeneralError, "reading config file "+path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return cfg, model.WrapCLIError(model.ExitSchemaError, "parsing config file "+path, err)
	}
	return cfg, nil
}
