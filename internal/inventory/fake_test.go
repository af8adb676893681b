package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeListVolumes(t *testing.T) {
	fake := NewFake()
	fake.Volumes["proj1_db"] = map[string]any{"name": "proj1_db", "driver": "local"}
	fake.Volumes["proj1_cache"] = map[string]any{"name": "proj1_cache", "driver": "local"}

	out, err := fake.ListVolumes(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFakeListVolumesEmpty(t *testing.T) {
	fake := NewFake()
	out, err := fake.ListVolumes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}
