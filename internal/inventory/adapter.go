package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/sirupsen/logrus"

	"github.com/samwho/ctrsnap/internal/model"
)

// Adapter is the abstract capability set this package requires: any engine
// exposing these operations is an acceptable backend. DockerAdapter is the
// only implementation in this repository, but components depend on this
// interface, not on *Client, so tests can substitute a fake.
type Adapter interface {
	ListContainers(ctx context.Context) ([]model.ContainerSnapshot, error)
	GetArchive(ctx context.Context, containerID, path string) (io.ReadCloser, model.Stat, error)
	Diff(ctx context.Context, containerID string) ([]model.DiffEntry, error)
	GetVolume(ctx context.Context, name string) (map[string]any, error)
	ListVolumes(ctx context.Context) ([]map[string]any, error)
	PullOrGetImage(ctx context.Context, ref string) error
	CreateEphemeral(ctx context.Context, image string, mounts []EphemeralMount) (string, error)
	RemoveEphemeral(ctx context.Context, containerID string) error
}

// EphemeralMount describes one bind mount for CreateEphemeral, used by the
// tar-volume operation to surface a named volume's contents without
// starting a long-lived container.
type EphemeralMount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// DockerAdapter implements Adapter against a real Docker Engine.
type DockerAdapter struct {
	client *Client
	log    *logrus.Logger
}

func NewDockerAdapter(c *Client, log *logrus.Logger) *DockerAdapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DockerAdapter{client: c, log: log}
}

// ListContainers returns a snapshot per running container, matching
// compose.py's client.containers.list() default of running-only:
// ListContainers lists without All so only running containers are
// snapshotted.
func (a *DockerAdapter) ListContainers(ctx context.Context) ([]model.ContainerSnapshot, error) {
	containers, err := a.client.Inner().ContainerList(ctx, container.ListOptions{All: false, Filters: filters.NewArgs()})
	if err != nil {
		return nil, &model.InventoryError{Op: "list containers", Err: err}
	}

	snapshots := make([]model.ContainerSnapshot, 0, len(containers))
	for _, c := range containers {
		snap, err := a.inspectToSnapshot(ctx, c.ID)
		if err != nil {
			a.log.WithError(err).WithField("container", c.ID).Info("skipping container: inspect failed")
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func (a *DockerAdapter) inspectToSnapshot(ctx context.Context, id string) (model.ContainerSnapshot, error) {
	inspect, err := a.client.Inner().ContainerInspect(ctx, id)
	if err != nil {
		return model.ContainerSnapshot{}, fmt.Errorf("inspecting %s: %w", id, err)
	}

	snap := model.ContainerSnapshot{
		ID:   inspect.ID,
		Name: strings.TrimPrefix(inspect.Name, "/"),
		Args: inspect.Args,
	}

	if inspect.Config != nil {
		snap.Labels = inspect.Config.Labels
		snap.Env = inspect.Config.Env
		snap.Image = inspect.Config.Image
		snap.Cmd = inspect.Config.Cmd
		snap.Entrypoint = inspect.Config.Entrypoint
	}
	snap.ComposeProject = snap.Labels["com.docker.compose.project"]
	snap.ComposeService = snap.Labels["com.docker.compose.service"]

	if inspect.HostConfig != nil {
		snap.HostConfig = hostConfigFromInspect(inspect.HostConfig)
	}
	for _, m := range inspect.Mounts {
		snap.HostConfig.Mounts = append(snap.HostConfig.Mounts, model.Mount{
			Type:   string(m.Type),
			Source: m.Source,
			Target: m.Destination,
		})
	}

	if inspect.NetworkSettings != nil {
		snap.Networks = make(map[string]model.NetworkAttachment, len(inspect.NetworkSettings.Networks))
		for name, ep := range inspect.NetworkSettings.Networks {
			if ep != nil {
				snap.Networks[name] = model.NetworkAttachment{IPAddress: ep.IPAddress}
			}
		}
		if inspect.NetworkSettings.Ports != nil {
			snap.HostConfig.PortBindings = make(map[string][]model.PortBinding, len(inspect.NetworkSettings.Ports))
			for port, bindings := range inspect.NetworkSettings.Ports {
				list := make([]model.PortBinding, 0, len(bindings))
				for _, b := range bindings {
					list = append(list, model.PortBinding{HostIP: b.HostIP, HostPort: b.HostPort})
				}
				snap.HostConfig.PortBindings[string(port)] = list
			}
		}
	}

	imgInspect, _, err := a.client.Inner().ImageInspectWithRaw(ctx, snap.Image)
	if err == nil {
		if imgInspect.Config != nil {
			snap.ImageLabels = imgInspect.Config.Labels
			snap.ImageEnv = envListToMap(imgInspect.Config.Env)
			snap.ImageVolumes = make(map[string]struct{}, len(imgInspect.Config.Volumes))
			for v := range imgInspect.Config.Volumes {
				snap.ImageVolumes[v] = struct{}{}
			}
			snap.ImageCmd = imgInspect.Config.Cmd
			snap.ImageEntrypoint = imgInspect.Config.Entrypoint
		}
	} else {
		a.log.WithError(err).WithField("image", snap.Image).Info("image inspect failed, proceeding without image baseline")
	}

	return snap, nil
}

func envListToMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, e := range env {
		if i := strings.IndexByte(e, '='); i >= 0 {
			out[e[:i]] = e[i+1:]
		}
	}
	return out
}

func hostConfigFromInspect(hc *container.HostConfig) model.HostConfig {
	out := model.HostConfig{
		Binds:        hc.Binds,
		NetworkMode:  string(hc.NetworkMode),
		ExtraHosts:   hc.ExtraHosts,
		CPUShares:    hc.CPUShares,
		CPUPeriod:    hc.CPUPeriod,
		CPUQuota:     hc.CPUQuota,
		CPUSetCPUs:   hc.CpusetCpus,
		CapAdd:       strSliceFromStrSlice(hc.CapAdd),
		CapDrop:      strSliceFromStrSlice(hc.CapDrop),
		CgroupParent: hc.CgroupParent,
		GroupAdd:     hc.GroupAdd,
		Privileged:   hc.Privileged,
	}
	if hc.RestartPolicy.Name != "" {
		out.RestartPolicy = string(hc.RestartPolicy.Name)
	}
	return out
}

func strSliceFromStrSlice[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

// GetArchive fetches a tar byte stream and stat for path inside a
// container. The stat's Mode follows the same bit layout
// os.FileMode already defines (see modebits.go).
func (a *DockerAdapter) GetArchive(ctx context.Context, containerID, path string) (io.ReadCloser, model.Stat, error) {
	rc, stat, err := a.client.Inner().CopyFromContainer(ctx, containerID, path)
	if err != nil {
		return nil, model.Stat{}, &model.InventoryError{Op: fmt.Sprintf("get archive %s:%s", containerID, path), Err: err}
	}
	return rc, model.Stat{
		Name:       stat.Name,
		Mode:       uint32(stat.Mode),
		LinkTarget: stat.LinkTarget,
	}, nil
}

// Diff returns the container's filesystem delta against its image. Kind
// values already match Docker's 0=modified/1=added/2=deleted encoding via
// container.ChangeType.
func (a *DockerAdapter) Diff(ctx context.Context, containerID string) ([]model.DiffEntry, error) {
	changes, err := a.client.Inner().ContainerDiff(ctx, containerID)
	if err != nil {
		return nil, &model.InventoryError{Op: fmt.Sprintf("diff %s", containerID), Err: err}
	}
	out := make([]model.DiffEntry, len(changes))
	for i, c := range changes {
		out[i] = model.DiffEntry{Path: c.Path, Kind: model.DiffKind(c.Kind)}
	}
	return out, nil
}

// GetVolume looks up a named volume's metadata; the tar-volume operation
// uses it to check that the volume exists.
func (a *DockerAdapter) GetVolume(ctx context.Context, name string) (map[string]any, error) {
	v, err := a.client.Inner().VolumeInspect(ctx, name)
	if err != nil {
		return nil, &model.InventoryError{Op: fmt.Sprintf("inspect volume %s", name), Err: err}
	}
	return map[string]any{
		"name":       v.Name,
		"driver":     v.Driver,
		"mountpoint": v.Mountpoint,
		"labels":     v.Labels,
		"scope":      v.Scope,
	}, nil
}

// ListVolumes returns every volume's metadata for the list-volume operation,
// grounded on original_source/dlabel/main.py::list_volume's
// `client.volumes.list()`.
func (a *DockerAdapter) ListVolumes(ctx context.Context) ([]map[string]any, error) {
	resp, err := a.client.Inner().VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, &model.InventoryError{Op: "list volumes", Err: err}
	}
	out := make([]map[string]any, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		out = append(out, map[string]any{
			"name":       v.Name,
			"driver":     v.Driver,
			"mountpoint": v.Mountpoint,
			"labels":     v.Labels,
			"scope":      v.Scope,
		})
	}
	return out, nil
}

// PullOrGetImage ensures ref is present locally, pulling it if necessary.
// The reference is normalized with distribution/reference so a bare
// "nginx" and "docker.io/library/nginx:latest" resolve the same way the
// engine itself would.
func (a *DockerAdapter) PullOrGetImage(ctx context.Context, ref string) error {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return &model.InventoryError{Op: "parse image reference " + ref, Err: err}
	}
	canonical := reference.TagNameOnly(named).String()

	if _, _, err := a.client.Inner().ImageInspectWithRaw(ctx, canonical); err == nil {
		return nil
	}

	rc, err := a.client.Inner().ImagePull(ctx, canonical, image.PullOptions{})
	if err != nil {
		return &model.InventoryError{Op: "pull image " + canonical, Err: err}
	}
	defer rc.Close()
	_, err = io.Copy(io.Discard, rc)
	if err != nil {
		return &model.InventoryError{Op: "reading pull progress for " + canonical, Err: err}
	}
	return nil
}

// CreateEphemeral creates (without starting) a container from image with the given
// bind mounts, for the tar-volume operation: grounded on
// original_source/dlabel/main.py::tar_volume, which creates a container
// purely to expose a volume's contents via get_archive, then removes it.
func (a *DockerAdapter) CreateEphemeral(ctx context.Context, img string, mounts []EphemeralMount) (string, error) {
	binds := make([]string, 0, len(mounts))
	for _, m := range mounts {
		spec := m.Source + ":" + m.Target
		if m.ReadOnly {
			spec += ":ro"
		}
		binds = append(binds, spec)
	}

	resp, err := a.client.Inner().ContainerCreate(ctx,
		&container.Config{Image: img},
		&container.HostConfig{Binds: binds},
		&network.NetworkingConfig{},
		nil,
		"",
	)
	if err != nil {
		return "", &model.InventoryError{Op: "create ephemeral container from " + img, Err: err}
	}
	return resp.ID, nil
}

// RemoveEphemeral force-removes a container created by CreateEphemeral.
func (a *DockerAdapter) RemoveEphemeral(ctx context.Context, containerID string) error {
	if err := a.client.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		return &model.InventoryError{Op: "remove ephemeral container " + containerID, Err: err}
	}
	return nil
}

var _ Adapter = (*DockerAdapter)(nil)
