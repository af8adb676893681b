package imagedelta

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samwho/ctrsnap/internal/inventory"
)

// Options configures one image-delta build pass.
type Options struct {
	Ignore []string // path-glob ignore patterns
	Labels bool      // append LABEL lines for container labels differing from the image
}

// Entry is one named member of the build output, in emission order:
// .dockerignore, added.tar.gz, modified.tar.gz, Dockerfile.
type Entry struct {
	Name string
	Data []byte
}

// Manifest is the full set of entries a build pass produced, plus the
// classified diff that drove it.
type Manifest struct {
	Entries []Entry
	Diff    *DiffSet
}

const dockerignoreBody = "*\n!added.tar.gz\n!modified.tar.gz\n"

// BuildDockerfile classifies a container's filesystem diff and produces
// a .dockerignore, the added/modified tarballs (each skipped when its set
// is empty), and a Dockerfile.
func BuildDockerfile(ctx context.Context, inv inventory.Adapter, containerID, image string, labels map[string]string, imageLabels map[string]string, opts Options, log *logrus.Logger) (*Manifest, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	diffs, err := inv.Diff(ctx, containerID)
	if err != nil {
		return nil, err
	}
	ds, err := Classify(ctx, inv, containerID, diffs)
	if err != nil {
		return nil, err
	}

	m := &Manifest{Diff: ds}
	m.Entries = append(m.Entries, Entry{Name: ".dockerignore", Data: []byte(dockerignoreBody)})

	if len(ds.Added) > 0 {
		added, err := BuildArchive(ctx, inv, containerID, ds.Added, opts.Ignore)
		if err != nil {
			return nil, err
		}
		if added != nil {
			m.Entries = append(m.Entries, Entry{Name: "added.tar.gz", Data: added})
		}
	}
	if len(ds.Modified) > 0 {
		modified, err := BuildArchive(ctx, inv, containerID, ds.Modified, opts.Ignore)
		if err != nil {
			return nil, err
		}
		if modified != nil {
			m.Entries = append(m.Entries, Entry{Name: "modified.tar.gz", Data: modified})
		}
	}

	dockerfile := RenderDockerfile(image, ds, labels, imageLabels, opts.Labels)
	m.Entries = append(m.Entries, Entry{Name: "Dockerfile", Data: []byte(dockerfile)})

	log.WithField("container", containerID).
		WithField("deleted", len(ds.Deleted)).
		WithField("added", len(ds.Added)).
		WithField("modified", len(ds.Modified)).
		WithField("links", len(ds.Link)).
		Info("built image delta")

	return m, nil
}

// RenderDockerfile emits FROM, one RUN rm -rf for deleted paths, ADD lines
// for the tarballs that exist, one RUN ln -sf per restored symlink
// (sorted), and optional LABEL lines.
func RenderDockerfile(image string, ds *DiffSet, labels, imageLabels map[string]string, withLabels bool) string {
	var lines []string
	lines = append(lines, "FROM "+image)

	if len(ds.Deleted) > 0 {
		deleted := append([]string(nil), ds.Deleted...)
		sort.Strings(deleted)
		quoted := make([]string, len(deleted))
		for i, p := range deleted {
			quoted[i] = shellQuote(p)
		}
		lines = append(lines, "RUN rm -rf "+strings.Join(quoted, " "))
	}
	if len(ds.Added) > 0 {
		lines = append(lines, "ADD added.tar.gz /")
	}
	if len(ds.Modified) > 0 {
		lines = append(lines, "ADD modified.tar.gz /")
	}

	linkKeys := make([]string, 0, len(ds.Link))
	for k := range ds.Link {
		linkKeys = append(linkKeys, k)
	}
	sort.Strings(linkKeys)
	for _, k := range linkKeys {
		lines = append(lines, "RUN ln -sf "+shellQuote(ds.Link[k])+" "+shellQuote(k))
	}

	if withLabels {
		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if strings.HasPrefix(k, "com.docker.compose.") {
				continue
			}
			v := labels[k]
			if imageLabels[k] == v {
				continue
			}
			lines = append(lines, "LABEL "+shellQuote(k)+"="+shellQuote(v))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// shellQuote mirrors Python's shlex.quote: a string made only of
// conventionally-safe characters is returned unquoted, everything else is
// wrapped in single quotes with embedded single quotes escaped.
func shellQuote(s string) string {
	if s != "" && shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
