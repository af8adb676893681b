package compose

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/model"
)

const composeLabelPrefix = "com.docker.compose."

// Options configures one reconstruction pass.
type Options struct {
	// All, when true, includes containers with no compose project label
	// at all (the source's --all/--compose switch; the caller decides
	// which revision's semantics apply by setting this).
	All bool
	// Project, when non-empty and All is false, is a shell glob that a
	// container's project label must match to be included.
	Project string

	// Output, when set together with Volume, causes relative-path binds
	// to have their contents streamed out to Fs under this directory
	//.
	Output string
	Volume bool
	Fs     afero.Fs
}

// Document is the reconstructed compose file: top-level services,
// volumes, and networks sections, each omitted entirely when empty.
type Document struct {
	Services *OrderedMap `yaml:"services,omitempty"`
	Volumes  *OrderedMap `yaml:"volumes,omitempty"`
	Networks *OrderedMap `yaml:"networks,omitempty"`
}

var hostConfigCopyMap = []struct {
	get func(model.HostConfig) any
	key string
}{
	{func(h model.HostConfig) any { return h.ExtraHosts }, "extra_hosts"},
	{func(h model.HostConfig) any { return h.CPUShares }, "cpu_shares"},
	{func(h model.HostConfig) any { return h.CPUPeriod }, "cpu_period"},
	{func(h model.HostConfig) any { return h.CPUPercent }, "cpu_percent"},
	{func(h model.HostConfig) any { return h.CPUCount }, "cpu_count"},
	{func(h model.HostConfig) any { return h.CPUQuota }, "cpu_quota"},
	{func(h model.HostConfig) any { return h.CPURealtimeRuntime }, "cpu_rt_runtime"},
	{func(h model.HostConfig) any { return h.CPURealtimePeriod }, "cpu_rt_period"},
	{func(h model.HostConfig) any { return h.CPUSetCPUs }, "cpuset"},
	{func(h model.HostConfig) any { return h.CapAdd }, "cap_add"},
	{func(h model.HostConfig) any { return h.CapDrop }, "cap_drop"},
	{func(h model.HostConfig) any { return h.CgroupParent }, "cgroup_parent"},
	{func(h model.HostConfig) any { return h.GroupAdd }, "group_add"},
	{func(h model.HostConfig) any { return h.Privileged }, "privileged"},
}

// Reconstruct walks the inventory and builds a compose Document,
// grounded on compose.py::compose, running each step in order for every
// qualifying container.
func Reconstruct(ctx context.Context, inv inventory.Adapter, opts Options, log *logrus.Logger) (*Document, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	containers, err := inv.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	services := NewOrderedMap()
	volumes := NewOrderedMap()
	networks := NewOrderedMap()

	names := make([]string, 0, len(containers))
	byName := make(map[string]model.ContainerSnapshot, len(containers))
	for _, c := range containers {
		names = append(names, c.Name)
		byName[c.Name] = c
	}
	sort.Strings(names)

	for _, cname := range names {
		c := byName[cname]

		// Step 1: project resolution and skip logic.
		project := c.Labels["com.docker.compose.project"]
		if !opts.All && project == "" {
			log.WithField("container", c.Name).Debug("skip: no project, not --all")
			continue
		}
		if !opts.All && project != "" && opts.Project != "" {
			if ok, _ := filepath.Match(opts.Project, project); !ok {
				log.WithField("container", c.Name).WithField("project", project).Debug("skip: project glob mismatch")
				continue
			}
		}
		serviceName := c.Labels["com.docker.compose.service"]
		if serviceName == "" {
			serviceName = c.Name
		}
		workingDir := c.Labels["com.docker.compose.project.working_dir"]
		if workingDir == "" {
			workingDir = "/"
		}

		svc := buildService(c, project, workingDir, log)
		services.Set(serviceName, svc)
		collectVolumes(c, volumes)
		collectNetworks(c, project, networks)

		if opts.Output != "" && opts.Volume {
			extractBinds(ctx, inv, opts, c, workingDir, log)
		}
	}

	doc := &Document{}
	if services.Len() > 0 {
		doc.Services = services
	}
	if volumes.Len() > 0 {
		doc.Volumes = volumes
	}
	if networks.Len() > 0 {
		doc.Networks = networks
	}
	return doc, nil
}

func buildService(c model.ContainerSnapshot, project, workingDir string, log *logrus.Logger) *OrderedMap {
	svc := NewOrderedMap()
	svc.Set("image", c.Image)

	if project != "" && !strings.HasPrefix(c.Name, project+"_") {
		svc.Set("container_name", c.Name)
	}

	nwmode, cnws := classifyNetwork(c.HostConfig.NetworkMode, project)
	if nwmode != "" {
		svc.Set("network_mode", nwmode)
	}

	cvols := buildVolumeList(c, workingDir)
	if len(cvols) > 0 {
		svc.Set("volumes", cvols)
	}
	if len(cnws) > 0 {
		svc.Set("networks", cnws)
	}

	if ports := portsToCompose(c.HostConfig.PortBindings); len(ports) > 0 {
		svc.Set("ports", ports)
	}

	if c.HostConfig.RestartPolicy != "" && c.HostConfig.RestartPolicy != "no" {
		svc.Set("restart", c.HostConfig.RestartPolicy)
	}

	if labels := diffLabels(c); len(labels) > 0 {
		svc.Set("labels", labels)
	}
	if envs := diffEnv(c); len(envs) > 0 {
		svc.Set("environment", envs)
	}

	for _, entry := range hostConfigCopyMap {
		v := entry.get(c.HostConfig)
		if isZero(v) {
			continue
		}
		svc.Set(entry.key, v)
	}

	if dep, ok := c.Labels[composeLabelPrefix+"depends_on"]; ok && dep != "" {
		svc.Set("depends_on", dep)
	}

	if !stringSlicesEqual(c.ImageCmd, c.Cmd) {
		svc.Set("command", c.Cmd)
	}
	if !stringSlicesEqual(c.ImageEntrypoint, c.Entrypoint) {
		svc.Set("entrypoint", c.Entrypoint)
	}

	return svc
}

// diffLabels implements step 2: drop labels identical to the image's own,
// then drop every remaining com.docker.compose.* label.
func diffLabels(c model.ContainerSnapshot) map[string]string {
	out := map[string]string{}
	for k, v := range c.Labels {
		if strings.HasPrefix(k, composeLabelPrefix) {
			continue
		}
		if iv, ok := c.ImageLabels[k]; ok && iv == v {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// diffEnv implements step 3.
func diffEnv(c model.ContainerSnapshot) map[string]string {
	out := map[string]string{}
	for _, e := range c.Env {
		i := strings.IndexByte(e, '=')
		if i < 0 {
			continue
		}
		k, v := e[:i], e[i+1:]
		if iv, ok := c.ImageEnv[k]; ok && iv == v {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// buildVolumeList implements steps 4 and 5: binds rewritten relative to
// the project working directory, plus named-volume mounts, skipping
// anything whose target is declared as an image VOLUME.
func buildVolumeList(c model.ContainerSnapshot, workingDir string) []string {
	var out []string
	for _, b := range c.HostConfig.Binds {
		parts := strings.SplitN(b, ":", 3)
		if len(parts) < 2 {
			continue
		}
		src, dst := parts[0], parts[1]
		if _, ok := c.ImageVolumes[dst]; ok {
			continue
		}
		display := src
		if rel, ok := relativeToWorkdir(src, workingDir); ok {
			display = "./" + rel
		}
		switch {
		case len(parts) == 2 || parts[2] == "rw":
			out = append(out, display+":"+dst)
		default:
			out = append(out, display+":"+dst+":"+parts[2])
		}
	}
	for _, m := range c.HostConfig.Mounts {
		if _, ok := c.ImageVolumes[m.Target]; ok {
			continue
		}
		volname := m.Source
		if c.ComposeProject != "" && strings.HasPrefix(volname, c.ComposeProject+"_") {
			volname = strings.TrimPrefix(volname, c.ComposeProject+"_")
		}
		if m.Target != "" {
			out = append(out, volname+":"+m.Target)
		}
	}
	return out
}

// relativeToWorkdir reports whether src falls under workingDir and, if
// so, returns its path relative to it, matching Path.is_relative_to.
func relativeToWorkdir(src, workingDir string) (string, bool) {
	wdir := strings.TrimSuffix(workingDir, "/")
	if wdir == "" {
		return strings.TrimPrefix(src, "/"), strings.HasPrefix(src, "/")
	}
	if src == wdir {
		return "", true
	}
	prefix := wdir + "/"
	if strings.HasPrefix(src, prefix) {
		return strings.TrimPrefix(src, prefix), true
	}
	return "", false
}

// extractBinds re-walks the container's binds and streams out any whose
// rewritten source is a project-relative "./..." path, grounded on
// compose.py's copy_files call inside its binds loop.
func extractBinds(ctx context.Context, inv inventory.Adapter, opts Options, c model.ContainerSnapshot, workingDir string, log *logrus.Logger) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	for _, b := range c.HostConfig.Binds {
		parts := strings.SplitN(b, ":", 3)
		if len(parts) < 2 {
			continue
		}
		src, dst := parts[0], parts[1]
		if _, ok := c.ImageVolumes[dst]; ok {
			continue
		}
		rel, ok := relativeToWorkdir(src, workingDir)
		if !ok {
			log.WithField("container", c.Name).WithField("dest", dst).Info("skip copy: bind is not project-relative")
			continue
		}
		destDir := path.Join(opts.Output, "./"+rel)
		if err := ExtractBindContents(ctx, inv, fs, c.ID, dst, destDir); err != nil {
			log.WithError(err).WithField("container", c.Name).WithField("dest", dst).Warn("bind content extraction failed")
		}
	}
}

func collectVolumes(c model.ContainerSnapshot, volumes *OrderedMap) {
	for _, m := range c.HostConfig.Mounts {
		if m.Type != "volume" {
			continue
		}
		if _, ok := c.ImageVolumes[m.Target]; ok {
			continue
		}
		volname := m.Source
		if c.ComposeProject != "" && strings.HasPrefix(volname, c.ComposeProject+"_") {
			volname = strings.TrimPrefix(volname, c.ComposeProject+"_")
		}
		if _, exists := volumes.Get(volname); !exists {
			volumes.Set(volname, map[string]any{})
		}
	}
}

// classifyNetwork implements step 6: a non-default, non-host, non-none
// network mode becomes a declared named network; everything else (host,
// none, or the project's own implicit default) propagates as
// network_mode or is dropped.
func classifyNetwork(mode, project string) (nwmode string, attached []string) {
	if project == "" || mode != project+"_default" {
		nwmode = mode
	}
	if nwmode != "" && nwmode != "host" && nwmode != "none" {
		attached = append(attached, nwmode)
		nwmode = ""
	}
	return nwmode, attached
}

func collectNetworks(c model.ContainerSnapshot, project string, networks *OrderedMap) {
	nwmode, attached := classifyNetwork(c.HostConfig.NetworkMode, project)
	_ = nwmode
	for _, n := range attached {
		if _, exists := networks.Get(n); !exists {
			networks.Set(n, map[string]any{})
		}
	}
}

// portsToCompose implements step 7.
func portsToCompose(bindings map[string][]model.PortBinding) []any {
	if len(bindings) == 0 {
		return nil
	}
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []any
	for _, key := range keys {
		v := bindings[key]
		proto := "tcp"
		port := key
		if i := strings.IndexByte(key, '/'); i >= 0 {
			port, proto = key[:i], key[i+1:]
		}
		if proto == "tcp" && len(v) == 1 {
			if v[0].HostIP != "" {
				out = append(out, v[0].HostIP+":"+v[0].HostPort+":"+port)
			} else {
				out = append(out, v[0].HostPort+":"+port)
			}
			continue
		}
		published := ""
		if len(v) > 0 {
			published = v[0].HostPort
		}
		target, _ := strconv.Atoi(port)
		out = append(out, map[string]any{
			"target":    target,
			"published": published,
			"protocol":  proto,
			"mode":      "host",
		})
	}
	return out
}

func isZero(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case int64:
		return t == 0
	case bool:
		return !t
	case []string:
		return len(t) == 0
	default:
		return v == nil
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
