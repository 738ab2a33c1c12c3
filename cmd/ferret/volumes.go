package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewVolumesCmd creates the volumes command
func NewVolumesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List mounted volumes",
		Long:  `List the mounted volumes with their size, usage and whether they are removable.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := newBackend(cfg)
			defer b.Close()

			vols, err := b.GetVolumes()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(vols)
			}

			rows := make([][]string, 0, len(vols))
			for _, v := range vols {
				rows = append(rows, []string{
					v.Mountpoint,
					string(v.Kind),
					gbString(v.TotalGB),
					gbString(v.UsedGB),
					gbString(v.AvailableGB),
					fmt.Sprintf("%.0f%%", v.UsedPercent()),
					yesNo(v.IsRemovable),
				})
			}
			return printTable(out, []string{"MOUNTPOINT", "KIND", "SIZE", "USED", "AVAILABLE", "USE%", "REMOVABLE"}, rows)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output volumes as JSON")

	return cmd
}

// gbString renders decimal gigabytes with SI units.
func gbString(gb float64) string {
	if gb <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(gb * 1e9))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

