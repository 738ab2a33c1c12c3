//go:build !linux && !darwin && !windows

package volume

import (
	"runtime"

	"ferret/internal/errors"
	"ferret/pkg/types"
)

type unsupportedSource struct{}

// SystemSource reports an error on platforms without volume enumeration.
func SystemSource() Source {
	return unsupportedSource{}
}

func DefaultMountRoots() []string {
	return nil
}

func (unsupportedSource) Volumes() ([]types.VolumeInfo, error) {
	return nil, errors.NewVolumeError("volume listing not supported on "+runtime.GOOS, "", nil)
}
