package imagedelta

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/model"
)

func statArchive(fake *inventory.Fake, containerID, path string, mode os.FileMode, linkTarget string) {
	fake.Archives[containerID+":"+path] = inventory.FakeArchive{
		Data: nil,
		Stat: model.Stat{Name: path, Mode: uint32(mode), LinkTarget: linkTarget},
	}
}

func TestClassifyDeletedAncestorElision(t *testing.T) {
	fake := inventory.NewFake()
	ds, err := Classify(context.Background(), fake, "c1", []model.DiffEntry{
		{Path: "/a", Kind: model.DiffDeleted},
		{Path: "/a/b", Kind: model.DiffDeleted},
		{Path: "/c", Kind: model.DiffDeleted},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/c"}, ds.Deleted)
}

func TestClassifyAddedDirectorySkipsDescendants(t *testing.T) {
	fake := inventory.NewFake()
	statArchive(fake, "c1", "/a", os.ModeDir, "")
	ds, err := Classify(context.Background(), fake, "c1", []model.DiffEntry{
		{Path: "/a", Kind: model.DiffAdded},
		{Path: "/a/b", Kind: model.DiffAdded},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, ds.Added)
}

func TestClassifyAddedSkipsNonRegularOtherThanDir(t *testing.T) {
	fake := inventory.NewFake()
	statArchive(fake, "c1", "/dev/sock", os.ModeSocket, "")
	ds, err := Classify(context.Background(), fake, "c1", []model.DiffEntry{
		{Path: "/dev/sock", Kind: model.DiffAdded},
	})
	require.NoError(t, err)
	assert.Empty(t, ds.Added)
}

func TestClassifyAddedSymlinkRecordedAsLink(t *testing.T) {
	fake := inventory.NewFake()
	statArchive(fake, "c1", "/bin/x", os.ModeSymlink, "/bin/y")
	ds, err := Classify(context.Background(), fake, "c1", []model.DiffEntry{
		{Path: "/bin/x", Kind: model.DiffAdded},
	})
	require.NoError(t, err)
	assert.Empty(t, ds.Added)
	assert.Equal(t, "/bin/y", ds.Link["/bin/x"])
}

func TestClassifyModifiedSkipsNonRegular(t *testing.T) {
	fake := inventory.NewFake()
	statArchive(fake, "c1", "/dev/x", os.ModeDevice, "")
	statArchive(fake, "c1", "/etc/conf", 0o644, "")
	ds, err := Classify(context.Background(), fake, "c1", []model.DiffEntry{
		{Path: "/dev/x", Kind: model.DiffModified},
		{Path: "/etc/conf", Kind: model.DiffModified},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/conf"}, ds.Modified)
}

func TestClassifyModifiedSymlink(t *testing.T) {
	fake := inventory.NewFake()
	statArchive(fake, "c1", "/bin/x", os.ModeSymlink, "/bin/z")
	ds, err := Classify(context.Background(), fake, "c1", []model.DiffEntry{
		{Path: "/bin/x", Kind: model.DiffModified},
	})
	require.NoError(t, err)
	assert.Empty(t, ds.Modified)
	assert.Equal(t, "/bin/z", ds.Link["/bin/x"])
}
