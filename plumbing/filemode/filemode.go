// Package filemode implements the file modes used by the working-tree
// synchronization core to classify entries as regular files, executables,
// symlinks, submodule gitlinks or trees.
package filemode

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
)

// A FileMode represents the mode of a file entry as seen by a tree, an
// index or the workdir.
//
// Only a handful of values are meaningful; every other value is kept as-is
// and reported as malformed by IsMalformed, mirroring the tolerance a
// real tree walker needs when reading foreign input.
type FileMode int32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0o40000
	Regular    FileMode = 0o100644
	Deprecated FileMode = 0o100664
	Executable FileMode = 0o100755
	Symlink    FileMode = 0o120000
	Submodule  FileMode = 0o160000
)

// New parses an octal representation of a mode, as stored in a tree entry
// or printed by a diff tool.
func New(s string) (FileMode, error) {
	modeInt, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, err
	}

	return FileMode(modeInt), nil
}

// NewFromOSFileMode returns the FileMode that best represents a
// os.FileMode value.
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	switch {
	case m.IsDir():
		return Dir, nil
	case m&os.ModeSymlink != 0:
		return Symlink, nil
	case m&os.ModeNamedPipe != 0:
		return Empty, fmt.Errorf("no equivalent file mode for named pipes")
	case m&os.ModeSocket != 0:
		return Empty, fmt.Errorf("no equivalent file mode for sockets")
	case m&os.ModeDevice != 0:
		return Empty, fmt.Errorf("no equivalent file mode for devices")
	case m&os.ModeCharDevice != 0:
		return Empty, fmt.Errorf("no equivalent file mode for char devices")
	case m&os.ModeIrregular != 0:
		return Empty, fmt.Errorf("no equivalent file mode for irregular files")
	case m&os.ModeTemporary != 0:
		return Empty, fmt.Errorf("no equivalent file mode for temporary files")
	}

	if m&0o111 != 0 {
		return Executable, nil
	}

	return Regular, nil
}

// Bytes returns the mode as 4 little-endian bytes, the form noder hashes
// append after an OID, e.g. Regular -> {0xa4, 0x81, 0x00, 0x00}.
func (m FileMode) Bytes() []byte {
	ret := make([]byte, 4)
	binary.LittleEndian.PutUint32(ret, uint32(m))
	return ret
}

// IsMalformed returns true if the mode doesn't correspond to any of the
// values defined by this package other than Empty; Empty is malformed.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// String implements fmt.Stringer as 7-digit, zero-padded octal, e.g.
// Regular -> "0100644".
func (m FileMode) String() string {
	return fmt.Sprintf("%07o", uint32(m))
}

// IsRegular returns if the FileMode represents that a TreeEntry is a
// regular, non-executable file: Regular or the deprecated 0100664 mode.
func (m FileMode) IsRegular() bool {
	return m == Regular || m == Deprecated
}

// IsFile returns true if the FileMode represents that a TreeEntry is a
// file: a regular file, a deprecated regular file, an executable or a
// symlink (but not a directory or submodule).
func (m FileMode) IsFile() bool {
	switch m {
	case Regular, Deprecated, Executable, Symlink:
		return true
	default:
		return false
	}
}

// ToOSFileMode returns the os.FileMode value represented by this FileMode,
// or a "malformed mode" error for Empty and every other malformed mode.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir:
		return os.ModePerm | os.ModeDir, nil
	case Symlink:
		return os.ModePerm | os.ModeSymlink, nil
	case Executable:
		return 0o755, nil
	case Regular, Deprecated:
		return 0o644, nil
	case Submodule:
		return os.ModePerm | os.ModeDir, nil
	}

	return 0, fmt.Errorf("malformed mode (%s)", m)
}
