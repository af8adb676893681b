package inventory

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samwho/ctrsnap/internal/model"
)

func TestModeBitClassification(t *testing.T) {
	assert.True(t, isDir(os.ModeDir|0o755))
	assert.True(t, isSymlink(os.ModeSymlink|0o777))
	assert.True(t, isNonRegular(os.ModeSocket))
	assert.True(t, isNonRegular(os.ModeNamedPipe))
	assert.False(t, isNonRegular(os.ModeDir))
	assert.False(t, isNonRegular(os.ModeSymlink))
	assert.Equal(t, os.FileMode(0o644), unixPerm(os.ModeDir|0o644))
}

func TestFakeAdapterRoundTrip(t *testing.T) {
	f := NewFake()
	f.Archives["ctn1:/data"] = FakeArchive{Data: []byte("tarbytes"), Stat: model.Stat{Name: "data", Mode: uint32(os.ModeDir | 0o755)}}

	rc, stat, err := f.GetArchive(context.Background(), "ctn1", "/data")
	assert.NoError(t, err)
	defer rc.Close()
	assert.True(t, isDir(os.FileMode(stat.Mode)))
}
