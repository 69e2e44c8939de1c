//go:build !(linux || darwin || freebsd)

package diskstat

import (
	"errors"
	"fmt"
)

// StatFilesystem is not supported on this platform
func StatFilesystem(path string) (FSStat, error) {
	return FSStat{}, fmt.Errorf("statfs %s: %w", path, errors.ErrUnsupported)
}
