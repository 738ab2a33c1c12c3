//go:build linux

package volume

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"ferret/internal/errors"
	"ferret/internal/log"
	"ferret/pkg/types"
)

type linuxSource struct {
	mountsPath string
	sysBlock   string
	statfs     func(path string) (total, free, avail uint64, err error)
}

// SystemSource returns the volumes of the running system, read from
// /proc/self/mounts and sized with statfs.
func SystemSource() Source {
	return &linuxSource{
		mountsPath: "/proc/self/mounts",
		sysBlock:   "/sys/class/block",
		statfs:     statfs,
	}
}

// DefaultMountRoots lists the directories removable media are mounted under.
func DefaultMountRoots() []string {
	roots := []string{"/media", "/mnt"}
	if user := os.Getenv("USER"); user != "" {
		roots = append(roots, filepath.Join("/media", user), filepath.Join("/run/media", user))
	}
	return roots
}

func statfs(path string) (total, free, avail uint64, err error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, 0, err
	}
	bsize := uint64(st.Bsize)
	return st.Blocks * bsize, st.Bfree * bsize, st.Bavail * bsize, nil
}

type mount struct {
	device     string
	mountpoint string
}

func (s *linuxSource) Volumes() ([]types.VolumeInfo, error) {
	f, err := os.Open(s.mountsPath)
	if err != nil {
		return nil, errors.NewVolumeError("cannot read mount table", s.mountsPath, err)
	}
	defer f.Close()

	mounts, err := parseMounts(f)
	if err != nil {
		return nil, errors.NewVolumeError("cannot parse mount table", s.mountsPath, err)
	}

	vols := make([]types.VolumeInfo, 0, len(mounts))
	for _, m := range mounts {
		total, free, avail, err := s.statfs(m.mountpoint)
		if err != nil {
			log.LogWithError(errors.NewVolumeError("statfs failed", m.mountpoint, err)).Debug("skipping volume")
			continue
		}
		if total == 0 {
			continue
		}
		kind, removable := s.blockInfo(m.device)
		vols = append(vols, newVolume(m.mountpoint, kind, removable, total, free, avail))
	}
	sortVolumes(vols)
	return vols, nil
}

// parseMounts keeps block-device mounts. Later entries for the same
// mountpoint replace earlier ones, matching what the kernel shows.
func parseMounts(r io.Reader) ([]mount, error) {
	var order []string
	byPoint := make(map[string]mount)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		m := mount{
			device:     unescapeMount(fields[0]),
			mountpoint: unescapeMount(fields[1]),
		}
		if !strings.HasPrefix(m.device, "/dev/") || strings.HasPrefix(m.device, "/dev/loop") {
			continue
		}
		if _, ok := byPoint[m.mountpoint]; !ok {
			order = append(order, m.mountpoint)
		}
		byPoint[m.mountpoint] = m
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]mount, 0, len(order))
	for _, p := range order {
		out = append(out, byPoint[p])
	}
	return out, nil
}

// unescapeMount decodes the octal escapes (\040 for space) used in the mount table.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// blockInfo reads rotational and removable flags from sysfs. Partitions
// inherit them from their parent disk.
func (s *linuxSource) blockInfo(device string) (types.DiskKind, bool) {
	name := filepath.Base(device)
	if resolved, err := filepath.EvalSymlinks(device); err == nil {
		name = filepath.Base(resolved)
	}

	dir := filepath.Join(s.sysBlock, name)
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}

	rotational, ok := readFlag(filepath.Join(dir, "queue", "rotational"))
	if !ok {
		rotational, _ = readFlag(filepath.Join(filepath.Dir(dir), "queue", "rotational"))
	}
	removable, ok := readFlag(filepath.Join(dir, "removable"))
	if !ok {
		removable, _ = readFlag(filepath.Join(filepath.Dir(dir), "removable"))
	}

	kind := types.SSD
	if rotational {
		kind = types.HDD
	}
	return kind, removable
}

func readFlag(path string) (value, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, false
	}
	return strings.TrimSpace(string(data)) == "1", true
}
