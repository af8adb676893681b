package imagedelta

import (
	"context"
	"os"
	"path"
	"sort"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/model"
)

// DiffSet is the classified filesystem diff: deleted paths to
// remove, added/modified paths to archive, and symlinks to restore with a
// RUN ln -sf line instead of being archived.
type DiffSet struct {
	Deleted  []string
	Added    []string
	Modified []string
	Link     map[string]string // path -> target
}

// Classify walks diffs in order and sorts them into a DiffSet, grounded on
// dockerfile.py's per-kind rules (themselves grounded on util.py's
// modebits/special_modes for the non-regular/symlink tests).
func Classify(ctx context.Context, inv inventory.Adapter, containerID string, diffs []model.DiffEntry) (*DiffSet, error) {
	ds := &DiffSet{Link: map[string]string{}}
	deletedSet := map[string]bool{}
	addedSet := map[string]bool{}

	for _, d := range diffs {
		switch d.Kind {
		case model.DiffDeleted:
			if hasAncestor(deletedSet, d.Path) {
				continue
			}
			ds.Deleted = append(ds.Deleted, d.Path)
			deletedSet[d.Path] = true

		case model.DiffAdded:
			if hasAncestor(addedSet, d.Path) {
				continue
			}
			stat, err := statPath(ctx, inv, containerID, d.Path)
			if err != nil {
				return nil, err
			}
			mode := os.FileMode(stat.Mode)
			if isNonRegular(mode) && !isDir(mode) {
				continue
			}
			if isSymlink(mode) && stat.LinkTarget != "" {
				ds.Link[d.Path] = stat.LinkTarget
				continue
			}
			ds.Added = append(ds.Added, d.Path)
			addedSet[d.Path] = true

		case model.DiffModified:
			stat, err := statPath(ctx, inv, containerID, d.Path)
			if err != nil {
				return nil, err
			}
			mode := os.FileMode(stat.Mode)
			if isNonRegular(mode) {
				continue
			}
			if isSymlink(mode) && stat.LinkTarget != "" {
				ds.Link[d.Path] = stat.LinkTarget
				continue
			}
			ds.Modified = append(ds.Modified, d.Path)
		}
	}

	sort.Strings(ds.Deleted)
	return ds, nil
}

// statPath fetches a path's stat via GetArchive, closing the body since
// only the header is needed here; the body is re-fetched when the path is
// actually archived. Stat and archive-fetch are kept as separate steps,
// unlike util.py's combined get_archive call, because the diff
// classification pass and the archive-build pass run independently here.
func statPath(ctx context.Context, inv inventory.Adapter, containerID, p string) (model.Stat, error) {
	rc, stat, err := inv.GetArchive(ctx, containerID, p)
	if err != nil {
		return model.Stat{}, err
	}
	rc.Close()
	return stat, nil
}

func hasAncestor(set map[string]bool, p string) bool {
	for cur := path.Dir(p); cur != "/" && cur != "."; cur = path.Dir(cur) {
		if set[cur] {
			return true
		}
	}
	return false
}

func isNonRegular(mode os.FileMode) bool {
	return mode&(os.ModeDevice|os.ModeNamedPipe|os.ModeSocket|os.ModeCharDevice|os.ModeIrregular) != 0
}

func isDir(mode os.FileMode) bool {
	return mode&os.ModeDir != 0
}

func isSymlink(mode os.FileMode) bool {
	return mode&os.ModeSymlink != 0
}
