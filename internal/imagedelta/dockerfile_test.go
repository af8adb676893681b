package imagedelta

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/model"
)

type rawTarEntry struct {
	name string
	dir  bool
	body string
}

func buildRawTar(t *testing.T, entries []rawTarEntry) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	tw := tar.NewWriter(buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func readGzipTarNames(t *testing.T, data []byte) map[string]string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gz.Close()
	tr := tar.NewReader(gz)
	out := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[hdr.Name] = string(body)
	}
	return out
}

func TestBuildArchiveSingleFile(t *testing.T) {
	fake := inventory.NewFake()
	fake.Archives["c1:/etc/custom.conf"] = inventory.FakeArchive{
		Data: buildRawTar(t, []rawTarEntry{{name: "custom.conf", body: "hello"}}),
		Stat: model.Stat{Mode: 0o644},
	}
	out, err := BuildArchive(context.Background(), fake, "c1", []string{"/etc/custom.conf"}, nil)
	require.NoError(t, err)
	require.NotNil(t, out)
	names := readGzipTarNames(t, out)
	assert.Equal(t, "hello", names["/etc/custom.conf"])
}

func TestBuildArchiveDirectoryRewritesNames(t *testing.T) {
	fake := inventory.NewFake()
	fake.Archives["c1:/app/data"] = inventory.FakeArchive{
		Data: buildRawTar(t, []rawTarEntry{
			{name: "data", dir: true},
			{name: "data/file1", body: "contents"},
		}),
		Stat: model.Stat{Mode: uint32(os.ModeDir)},
	}
	out, err := BuildArchive(context.Background(), fake, "c1", []string{"/app/data"}, nil)
	require.NoError(t, err)
	names := readGzipTarNames(t, out)
	assert.Equal(t, "contents", names["/app/data/file1"])
}

func TestBuildArchiveIgnoreGlob(t *testing.T) {
	fake := inventory.NewFake()
	fake.Archives["c1:/app/data"] = inventory.FakeArchive{
		Data: buildRawTar(t, []rawTarEntry{
			{name: "data", dir: true},
			{name: "data/keep.txt", body: "k"},
			{name: "data/skip.log", body: "s"},
		}),
		Stat: model.Stat{Mode: uint32(os.ModeDir)},
	}
	out, err := BuildArchive(context.Background(), fake, "c1", []string{"/app/data"}, []string{"*.log"})
	require.NoError(t, err)
	names := readGzipTarNames(t, out)
	_, hasKeep := names["/app/data/keep.txt"]
	_, hasSkip := names["/app/data/skip.log"]
	assert.True(t, hasKeep)
	assert.False(t, hasSkip)
}

func TestBuildArchiveEmptySetReturnsNil(t *testing.T) {
	fake := inventory.NewFake()
	out, err := BuildArchive(context.Background(), fake, "c1", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRenderDockerfileFull(t *testing.T) {
	ds := &DiffSet{
		Deleted:  []string{"/tmp/b", "/tmp/a"},
		Added:    []string{"/etc/new.conf"},
		Modified: []string{"/etc/existing.conf"},
		Link:     map[string]string{"/usr/bin/x": "/usr/bin/y"},
	}
	labels := map[string]string{
		"com.docker.compose.project": "p",
		"maintainer":                 "me",
		"unchanged":                  "same",
	}
	imageLabels := map[string]string{"unchanged": "same"}

	out := RenderDockerfile("myimage:latest", ds, labels, imageLabels, true)

	assert.Contains(t, out, "FROM myimage:latest\n")
	assert.Contains(t, out, "RUN rm -rf /tmp/a /tmp/b\n")
	assert.Contains(t, out, "ADD added.tar.gz /\n")
	assert.Contains(t, out, "ADD modified.tar.gz /\n")
	assert.Contains(t, out, "RUN ln -sf /usr/bin/y /usr/bin/x\n")
	assert.Contains(t, out, "LABEL maintainer=me\n")
	assert.NotContains(t, out, "com.docker.compose")
	assert.NotContains(t, out, "unchanged")
}

func TestRenderDockerfileNoLabelsWhenDisabled(t *testing.T) {
	ds := &DiffSet{}
	out := RenderDockerfile("img", ds, map[string]string{"a": "b"}, nil, false)
	assert.Equal(t, "FROM img\n", out)
}

func TestShellQuoteSafeUnquoted(t *testing.T) {
	assert.Equal(t, "/tmp/safe-path.txt", shellQuote("/tmp/safe-path.txt"))
}

func TestShellQuoteEscapesSingleQuotes(t *testing.T) {
	assert.Equal(t, `'it'"'"'s'`, shellQuote("it's"))
}

func TestBuildDockerfileEndToEnd(t *testing.T) {
	fake := inventory.NewFake()
	fake.Diffs["c1"] = []model.DiffEntry{
		{Path: "/etc/removed.conf", Kind: model.DiffDeleted},
		{Path: "/etc/new.conf", Kind: model.DiffAdded},
	}
	fake.Archives["c1:/etc/new.conf"] = inventory.FakeArchive{
		Data: buildRawTar(t, []rawTarEntry{{name: "new.conf", body: "x"}}),
		Stat: model.Stat{Mode: 0o644},
	}

	m, err := BuildDockerfile(context.Background(), fake, "c1", "myimage:latest", nil, nil, Options{}, nil)
	require.NoError(t, err)
	require.Len(t, m.Entries, 3)
	assert.Equal(t, ".dockerignore", m.Entries[0].Name)
	assert.Equal(t, dockerignoreBody, string(m.Entries[0].Data))
	assert.Equal(t, "added.tar.gz", m.Entries[1].Name)
	assert.Equal(t, "Dockerfile", m.Entries[2].Name)
	assert.Contains(t, string(m.Entries[2].Data), "FROM myimage:latest")
	assert.Contains(t, string(m.Entries[2].Data), "RUN rm -rf /etc/removed.conf")
	assert.Contains(t, string(m.Entries[2].Data), "ADD added.tar.gz /")
}
