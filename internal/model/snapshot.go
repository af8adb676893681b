package model

// ContainerSnapshot is the immutable, read-only view of one container's
// engine-reported attributes captured at the start of an aggregation pass.
// Nothing mutates a snapshot once built; a fresh set is constructed per
// request.
type ContainerSnapshot struct {
	ID   string
	Name string // container name, leading "/" stripped

	Image        string              // image reference as recorded on the container
	ImageLabels  map[string]string   // the image's own labels
	ImageEnv     map[string]string   // the image's own KEY=VALUE env, pre-split
	ImageVolumes map[string]struct{} // declared VOLUME paths on the image
	ImageCmd     []string            // the image's own default Cmd
	ImageEntrypoint []string         // the image's own default Entrypoint

	Labels map[string]string // effective container labels
	Env    []string          // raw KEY=VALUE entries, as reported by the engine
	Args   []string          // command argument vector (Config.Cmd/Entrypoint combined by caller as needed)

	HostConfig HostConfig
	Networks   map[string]NetworkAttachment // network name -> assigned address

	ComposeProject string // com.docker.compose.project label, if present
	ComposeService string // com.docker.compose.service label, if present

	Cmd        []string
	Entrypoint []string
}

// HostConfig mirrors the subset of the engine's host configuration that the
// Compose Reconstructor and ingress aggregator need.
type HostConfig struct {
	Binds         []string // "src:dst[:mode]"
	Mounts        []Mount
	PortBindings  map[string][]PortBinding // "<containerPort>/<proto>" -> bindings
	NetworkMode   string
	RestartPolicy string

	ExtraHosts          []string
	CPUShares           int64
	CPUPeriod           int64
	CPUPercent          int64
	CPUCount            int64
	CPUQuota            int64
	CPURealtimeRuntime  int64
	CPURealtimePeriod   int64
	CPUSetCPUs          string
	CapAdd              []string
	CapDrop             []string
	CgroupParent        string
	GroupAdd            []string
	Privileged          bool
}

// Mount mirrors one entry of HostConfig.Mounts as reported by the engine.
type Mount struct {
	Type   string // "bind", "volume", "tmpfs"
	Source string
	Target string
}

// PortBinding is one published-port entry ("HostIp"/"HostPort" pair).
type PortBinding struct {
	HostIP   string
	HostPort string
}

// NetworkAttachment is the address a container holds on one attached
// network.
type NetworkAttachment struct {
	IPAddress string
}

// DiffKind is the engine's filesystem-diff classification.
type DiffKind int

const (
	DiffModified DiffKind = 0
	DiffAdded    DiffKind = 1
	DiffDeleted  DiffKind = 2
)

// DiffEntry is one (path, kind) pair from Adapter.Diff.
type DiffEntry struct {
	Path string
	Kind DiffKind
}

// Stat is the subset of filesystem metadata the Image Delta Builder and
// Compose Reconstructor need when copying a path out of a container
//: the raw mode bits (encoded per the upstream runtime: bit
// 31=dir, 27=symlink, 26=device, 25=namedpipe, 24=socket, 23=setuid,
// 22=setgid, 21=chardev, 20=sticky, 19=irregular, low 9 bits=unix perms)
// and, for symlinks, the link target.
type Stat struct {
	Name       string
	Mode       uint32
	LinkTarget string
}
