//go:build linux || darwin || freebsd

package diskstat

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// StatFilesystem returns the capacity of the filesystem holding path
func StatFilesystem(path string) (FSStat, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSStat{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	return FSStat{
		AvailableBytes: int64(st.Bavail) * int64(st.Bsize),
		BlockSize:      int64(st.Bsize),
		BlockCount:     int64(st.Blocks),
	}, nil
}
