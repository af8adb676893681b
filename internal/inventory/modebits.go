package inventory

import "os"

// Stat mode bits are reported by the engine using the same encoding Go's
// os.FileMode already defines: bit 31=dir, 27=symlink,
// 26=device, 25=namedpipe, 24=socket, 23=setuid, 22=setgid, 21=chardev,
// 20=sticky, 19=irregular; the low 9 bits are the unix permission bits.
// Grounded on original_source/dlabel/util.py's modebits/special_modes,
// which assign the identical shift amounts — the upstream runtime's wire
// encoding for a path stat is, bit for bit, Go's own os.FileMode.

// isNonRegular reports whether mode has one of the type bits special_modes in util.py classifies
// as "non-regular": anything that isn't a plain file, a directory, or a
// symlink (those three get first-class handling elsewhere).
func isNonRegular(mode os.FileMode) bool {
	return mode&(os.ModeDevice|os.ModeNamedPipe|os.ModeSocket|os.ModeCharDevice|os.ModeIrregular) != 0
}

func isDir(mode os.FileMode) bool {
	return mode&os.ModeDir != 0
}

func isSymlink(mode os.FileMode) bool {
	return mode&os.ModeSymlink != 0
}

func unixPerm(mode os.FileMode) os.FileMode {
	return mode & 0o777
}
