//go:build windows

package volume

import (
	"golang.org/x/sys/windows"

	"ferret/internal/errors"
	"ferret/internal/log"
	"ferret/pkg/types"
)

type windowsSource struct{}

// SystemSource returns the fixed and removable logical drives.
func SystemSource() Source {
	return windowsSource{}
}

// DefaultMountRoots is empty: drive letters appear without a parent directory.
func DefaultMountRoots() []string {
	return nil
}

func (windowsSource) Volumes() ([]types.VolumeInfo, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, errors.NewVolumeError("cannot list logical drives", "", err)
	}

	var vols []types.VolumeInfo
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := string(rune('A'+i)) + `:\`
		ptr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		driveType := windows.GetDriveType(ptr)
		if driveType != windows.DRIVE_FIXED && driveType != windows.DRIVE_REMOVABLE {
			continue
		}

		var avail, total, free uint64
		if err := windows.GetDiskFreeSpaceEx(ptr, &avail, &total, &free); err != nil {
			// Empty card readers and ejected media end up here.
			log.LogWithError(errors.NewVolumeError("cannot query free space", root, err)).Debug("skipping volume")
			continue
		}
		vols = append(vols, newVolume(root, types.HDD, driveType == windows.DRIVE_REMOVABLE, total, free, avail))
	}
	sortVolumes(vols)
	return vols, nil
}
