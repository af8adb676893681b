package aggregator

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/merge"
	"github.com/samwho/ctrsnap/internal/model"
)

// ExtractFileProvider implements step 1's "file" source:
// compute provider = merge(from_args.providers, from_envs.providers); if
// provider.file.filename or provider.file.directory is set, download that
// path from the container filesystem; for every extracted regular file
// whose name ends in .yml/.yaml or .toml, parse and merge the result.
//
// A malformed provider file aborts only that file (model.ProviderFileError,
// logged at info), not the container or the pass.
func ExtractFileProvider(ctx context.Context, inv inventory.Adapter, containerID string, provider map[string]any, log *logrus.Logger) map[string]any {
	fileSection, _ := provider["file"].(map[string]any)
	filename, _ := fileSection["filename"].(string)
	directory, _ := fileSection["directory"].(string)

	path := filename
	if path == "" {
		path = directory
	}
	if path == "" {
		return map[string]any{}
	}

	rc, _, err := inv.GetArchive(ctx, containerID, path)
	if err != nil {
		log.WithError(&model.ProviderFileError{Container: containerID, Path: path, Err: err}).Info("provider file unreachable")
		return map[string]any{}
	}
	defer rc.Close()

	out := map[string]any{}
	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(&model.ProviderFileError{Container: containerID, Path: path, Err: err}).Info("reading provider archive")
			break
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if !hasProviderExtension(hdr.Name) {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			log.WithError(&model.ProviderFileError{Container: containerID, Path: hdr.Name, Err: err}).Info("reading provider file body")
			continue
		}
		parsed, err := parseProviderFile(hdr.Name, data)
		if err != nil {
			log.WithError(&model.ProviderFileError{Container: containerID, Path: hdr.Name, Err: err}).Info("parsing provider file")
			continue
		}
		out = merge.MergeTrees(out, parsed)
	}
	return out
}

func hasProviderExtension(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".toml")
}

func parseProviderFile(name string, data []byte) (map[string]any, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".toml") {
		var out map[string]any
		if _, err := toml.Decode(string(data), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var out map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
