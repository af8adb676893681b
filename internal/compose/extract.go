package compose

import (
	"archive/tar"
	"context"
	"io"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/samwho/ctrsnap/internal/inventory"
)

// ExtractBindContents streams a container path's archive onto fs at
// destDir, mirroring copy_files in original_source/dlabel/compose.py: a
// single regular-file archive is written as one file under destDir's
// parent, otherwise the archive is unpacked as a directory tree under
// destDir with each member's leading path component stripped (the
// component CopyFromContainer's tar always prefixes with the basename of
// the path that was copied).
func ExtractBindContents(ctx context.Context, inv inventory.Adapter, fs afero.Fs, containerID, containerPath, destDir string) error {
	rc, _, err := inv.GetArchive(ctx, containerID, containerPath)
	if err != nil {
		return err
	}
	defer rc.Close()

	tr := tar.NewReader(rc)
	var headers []*tar.Header
	var bodies [][]byte
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg && hdr.Typeflag != tar.TypeDir {
			continue
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return err
		}
		headers = append(headers, hdr)
		bodies = append(bodies, body)
	}

	regulars := 0
	for _, h := range headers {
		if h.Typeflag == tar.TypeReg {
			regulars++
		}
	}

	if len(headers) == 1 && headers[0].Typeflag == tar.TypeReg {
		parent := path.Dir(destDir)
		if err := fs.MkdirAll(parent, 0o755); err != nil {
			return err
		}
		return afero.WriteFile(fs, destDir, bodies[0], 0o644)
	}

	if err := fs.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for i, h := range headers {
		name := stripLeadingComponent(h.Name)
		if name == "" {
			continue
		}
		target := path.Join(destDir, name)
		if h.Typeflag == tar.TypeDir {
			if err := fs.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := fs.MkdirAll(path.Dir(target), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, target, bodies[i], 0o644); err != nil {
			return err
		}
	}
	return nil
}

func stripLeadingComponent(name string) string {
	name = strings.TrimPrefix(name, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
