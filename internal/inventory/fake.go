package inventory

import (
	"context"
	"io"
	"strings"

	"github.com/samwho/ctrsnap/internal/model"
)

// Fake is an in-memory Adapter used by other packages' tests (aggregator,
// compose, imagedelta) so they can exercise the pipeline without a real
// daemon. Exported from the production package so fixtures are
// constructed inline rather than through a mock framework.
type Fake struct {
	Containers []model.ContainerSnapshot
	Archives   map[string]FakeArchive // key: containerID+":"+path
	Diffs      map[string][]model.DiffEntry
	Volumes    map[string]map[string]any

	Ephemeral map[string]string // containerID -> image, for assertions
	nextID    int
}

type FakeArchive struct {
	Data []byte
	Stat model.Stat
}

func NewFake() *Fake {
	return &Fake{
		Archives:  map[string]FakeArchive{},
		Diffs:     map[string][]model.DiffEntry{},
		Volumes:   map[string]map[string]any{},
		Ephemeral: map[string]string{},
	}
}

func (f *Fake) ListContainers(ctx context.Context) ([]model.ContainerSnapshot, error) {
	return f.Containers, nil
}

func (f *Fake) GetArchive(ctx context.Context, containerID, path string) (io.ReadCloser, model.Stat, error) {
	arc, ok := f.Archives[containerID+":"+path]
	if !ok {
		return nil, model.Stat{}, &model.InventoryError{Op: "get archive", Err: errNotFound(path)}
	}
	return io.NopCloser(strings.NewReader(string(arc.Data))), arc.Stat, nil
}

func (f *Fake) Diff(ctx context.Context, containerID string) ([]model.DiffEntry, error) {
	return f.Diffs[containerID], nil
}

func (f *Fake) GetVolume(ctx context.Context, name string) (map[string]any, error) {
	v, ok := f.Volumes[name]
	if !ok {
		return nil, &model.InventoryError{Op: "get volume", Err: errNotFound(name)}
	}
	return v, nil
}

func (f *Fake) ListVolumes(ctx context.Context) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(f.Volumes))
	for _, v := range f.Volumes {
		out = append(out, v)
	}
	return out, nil
}

func (f *Fake) PullOrGetImage(ctx context.Context, ref string) error {
	return nil
}

func (f *Fake) CreateEphemeral(ctx context.Context, image string, mounts []EphemeralMount) (string, error) {
	f.nextID++
	id := "ephemeral" + itoa(f.nextID)
	f.Ephemeral[id] = image
	return id, nil
}

func (f *Fake) RemoveEphemeral(ctx context.Context, containerID string) error {
	delete(f.Ephemeral, containerID)
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

type notFoundErr string

func (e notFoundErr) Error() string { return "not found: " + string(e) }

func errNotFound(s string) error { return notFoundErr(s) }

var _ Adapter = (*Fake)(nil)
