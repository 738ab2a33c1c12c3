// Package volume enumerates mounted volumes and reports when the set changes.
package volume

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"ferret/pkg/types"
)

const bytesPerGB = 1e9

// Source lists the currently mounted volumes.
type Source interface {
	Volumes() ([]types.VolumeInfo, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]types.VolumeInfo, error)

func (f SourceFunc) Volumes() ([]types.VolumeInfo, error) { return f() }

// Removed returns the mountpoints present in old but not in new, in old's order.
func Removed(old, new []types.VolumeInfo) []string {
	return difference(old, new)
}

// Added returns the mountpoints present in new but not in old, in new's order.
func Added(old, new []types.VolumeInfo) []string {
	return difference(new, old)
}

func difference(a, b []types.VolumeInfo) []string {
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		seen[v.Mountpoint] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := seen[v.Mountpoint]; !ok {
			out = append(out, v.Mountpoint)
		}
	}
	return out
}

// SameSet reports whether both lists hold the same mountpoints.
func SameSet(a, b []types.VolumeInfo) bool {
	return len(Removed(a, b)) == 0 && len(Added(a, b)) == 0
}

// Contains reports whether path lies on mountpoint. The check is by path
// component: /media/usb1 contains /media/usb1/docs but not /media/usb10.
func Contains(mountpoint, path string) bool {
	if mountpoint == "" || path == "" {
		return false
	}
	mp := filepath.Clean(mountpoint)
	p := filepath.Clean(path)
	if equalPath(mp, p) {
		return true
	}
	if !strings.HasSuffix(mp, string(filepath.Separator)) {
		mp += string(filepath.Separator)
	}
	return len(p) > len(mp) && equalPath(p[:len(mp)], mp)
}

func equalPath(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// VolumeOf returns the most specific mountpoint among vols that contains path.
func VolumeOf(vols []types.VolumeInfo, path string) (types.VolumeInfo, bool) {
	var best types.VolumeInfo
	found := false
	for _, v := range vols {
		if Contains(v.Mountpoint, path) && len(v.Mountpoint) > len(best.Mountpoint) {
			best, found = v, true
		}
	}
	return best, found
}

func sortVolumes(vols []types.VolumeInfo) {
	sort.Slice(vols, func(i, j int) bool { return vols[i].Mountpoint < vols[j].Mountpoint })
}

func toGB(bytes uint64) float64 {
	return float64(bytes) / bytesPerGB
}

func newVolume(mountpoint string, kind types.DiskKind, removable bool, total, free, avail uint64) types.VolumeInfo {
	used := uint64(0)
	if total > free {
		used = total - free
	}
	return types.VolumeInfo{
		Mountpoint:  mountpoint,
		Kind:        kind,
		IsRemovable: removable,
		TotalGB:     toGB(total),
		UsedGB:      toGB(used),
		AvailableGB: toGB(avail),
	}
}
