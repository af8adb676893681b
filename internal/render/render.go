package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names an output serialization.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
)

// Render dispatches to the matching serializer; an empty Format defaults to
// YAML, matching the CLI's own default.
func Render(v any, format Format) ([]byte, error) {
	switch format {
	case "", YAML:
		return RenderYAML(v)
	case JSON:
		return RenderJSON(v)
	case TOML:
		return RenderTOML(v)
	default:
		return nil, fmt.Errorf("render: unknown format %q", format)
	}
}

func RenderYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// RenderJSON encodes with a 2-space indent and without HTML-escaping,
// since the source's default json.dumps neither escapes unicode nor
// collapses whitespace.
func RenderJSON(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func RenderTOML(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
