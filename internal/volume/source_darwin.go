//go:build darwin

package volume

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"ferret/internal/errors"
	"ferret/internal/log"
	"ferret/pkg/types"
)

type darwinSource struct {
	volumesDir string
}

// SystemSource returns / and every volume mounted under /Volumes.
func SystemSource() Source {
	return &darwinSource{volumesDir: "/Volumes"}
}

// DefaultMountRoots lists the directories removable media are mounted under.
func DefaultMountRoots() []string {
	return []string{"/Volumes"}
}

func (s *darwinSource) Volumes() ([]types.VolumeInfo, error) {
	var root unix.Statfs_t
	if err := unix.Statfs("/", &root); err != nil {
		return nil, errors.NewVolumeError("statfs failed", "/", err)
	}
	vols := []types.VolumeInfo{fromStatfs("/", &root, false)}

	entries, err := os.ReadDir(s.volumesDir)
	if err != nil {
		sortVolumes(vols)
		return vols, nil
	}
	for _, e := range entries {
		mp := filepath.Join(s.volumesDir, e.Name())
		var st unix.Statfs_t
		if err := unix.Statfs(mp, &st); err != nil {
			log.LogWithError(errors.NewVolumeError("statfs failed", mp, err)).Debug("skipping volume")
			continue
		}
		// The boot volume also appears under /Volumes as a link to /.
		if st.Fsid == root.Fsid {
			continue
		}
		vols = append(vols, fromStatfs(mp, &st, true))
	}
	sortVolumes(vols)
	return vols, nil
}

func fromStatfs(mountpoint string, st *unix.Statfs_t, removable bool) types.VolumeInfo {
	bsize := uint64(st.Bsize)
	return newVolume(mountpoint, types.SSD, removable, st.Blocks*bsize, st.Bfree*bsize, st.Bavail*bsize)
}
