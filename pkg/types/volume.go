package types

// DiskKind is the storage technology behind a volume.
type DiskKind string

const (
	HDD DiskKind = "HDD"
	SSD DiskKind = "SSD"
)

// VolumeInfo describes a mounted volume. Mountpoint is its identity.
type VolumeInfo struct {
	Mountpoint  string   `json:"mountpoint"`
	Kind        DiskKind `json:"kind"`
	IsRemovable bool     `json:"is_removable"`
	TotalGB     float64  `json:"total_gb"`
	UsedGB      float64  `json:"used_gb"`
	AvailableGB float64  `json:"available_gb"`
}

// UsedPercent returns how full the volume is, 0 when the size is unknown.
func (v VolumeInfo) UsedPercent() float64 {
	if v.TotalGB <= 0 {
		return 0
	}
	return v.UsedGB / v.TotalGB * 100
}
