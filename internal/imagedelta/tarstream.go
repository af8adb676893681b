package imagedelta

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/samwho/ctrsnap/internal/inventory"
)

// Writer streams a gzip+tar archive member by member, exposing the bytes
// written since the previous call instead of buffering the whole archive —
// the same "seek to last offset, read what's new" idiom
// original_source/dlabel/api.py's get_archive generator uses around an
// io.BytesIO.
type Writer struct {
	buf *bytes.Buffer
	gz  *gzip.Writer
	tw  *tar.Writer
}

func NewWriter() *Writer {
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	return &Writer{buf: buf, gz: gz, tw: tar.NewWriter(gz)}
}

// AddFile writes one regular-file member and returns the bytes flushed as
// a result.
func (w *Writer) AddFile(name string, mode int64, mtime time.Time, data []byte) ([]byte, error) {
	hdr := &tar.Header{
		Name:    name,
		Mode:    mode,
		Size:    int64(len(data)),
		ModTime: mtime,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := w.tw.Write(data); err != nil {
		return nil, err
	}
	return w.flush()
}

// AddDir writes a directory member, preserving empty directories and modes
// from the source archive.
func (w *Writer) AddDir(name string, mode int64, mtime time.Time) ([]byte, error) {
	hdr := &tar.Header{
		Name:     name + "/",
		Mode:     mode,
		Typeflag: tar.TypeDir,
		ModTime:  mtime,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	return w.flush()
}

func (w *Writer) flush() ([]byte, error) {
	if err := w.gz.Flush(); err != nil {
		return nil, err
	}
	if w.buf.Len() == 0 {
		return nil, nil
	}
	chunk := make([]byte, w.buf.Len())
	copy(chunk, w.buf.Bytes())
	w.buf.Reset()
	return chunk, nil
}

// Close finalizes the tar and gzip trailers and returns any remaining
// bytes.
func (w *Writer) Close() ([]byte, error) {
	if err := w.tw.Close(); err != nil {
		return nil, err
	}
	if err := w.gz.Close(); err != nil {
		return nil, err
	}
	return w.flush()
}

type tarMember struct {
	hdr  *tar.Header
	body []byte
}

func readTarMembers(r io.Reader) ([]tarMember, error) {
	tr := tar.NewReader(r)
	var members []tarMember
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		members = append(members, tarMember{hdr: hdr, body: body})
	}
	return members, nil
}

// BuildArchive downloads each path from the container and repackages the
// selected members into a single gzip'd tar. A
// directory source's members are renamed under the full source path; a
// single-file source keeps the source path itself as the member name,
// matching the runtime's CopyFromContainer convention of rooting the tar
// at the requested path's basename.
func BuildArchive(ctx context.Context, inv inventory.Adapter, containerID string, paths []string, ignore []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	w := NewWriter()
	now := time.Now()
	wrote := false
	var out []byte

	for _, p := range paths {
		rc, stat, err := inv.GetArchive(ctx, containerID, p)
		if err != nil {
			return nil, err
		}
		members, err := readTarMembers(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		srcIsDir := isDir(os.FileMode(stat.Mode))
		for _, m := range members {
			name := rewriteMemberName(p, m.hdr.Name, srcIsDir)
			if name == "" || matchesAnyIgnore(name, ignore) {
				continue
			}
			switch m.hdr.Typeflag {
			case tar.TypeDir:
				chunk, err := w.AddDir(name, m.hdr.Mode, now)
				if err != nil {
					return nil, err
				}
				out = append(out, chunk...)
			case tar.TypeReg:
				chunk, err := w.AddFile(name, m.hdr.Mode, now, m.body)
				if err != nil {
					return nil, err
				}
				out = append(out, chunk...)
			default:
				continue
			}
			wrote = true
		}
	}

	if !wrote {
		w.Close()
		return nil, nil
	}
	tail, err := w.Close()
	if err != nil {
		return nil, err
	}
	return append(out, tail...), nil
}

func rewriteMemberName(srcPath, memberName string, srcIsDir bool) string {
	memberName = strings.TrimPrefix(memberName, "./")
	memberName = strings.TrimSuffix(memberName, "/")
	if !srcIsDir {
		return srcPath
	}
	base := path.Base(srcPath)
	if memberName == base {
		return srcPath
	}
	prefix := base + "/"
	if strings.HasPrefix(memberName, prefix) {
		return srcPath + "/" + strings.TrimPrefix(memberName, prefix)
	}
	return srcPath + "/" + memberName
}

func matchesAnyIgnore(name string, ignore []string) bool {
	base := path.Base(name)
	for _, pat := range ignore {
		if ok, _ := path.Match(pat, name); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}
