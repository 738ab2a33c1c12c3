package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ferret/internal/backend"
	"ferret/internal/errors"

	"github.com/spf13/cobra"
)

// NewLsCmd creates the ls command
func NewLsCmd() *cobra.Command {
	var (
		hidden     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List a directory",
		Long:  `List the entries of a directory, folders first unless disabled in the configuration.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetDir(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("hidden") {
				cfg.Listing.IncludeHidden = hidden
			}

			b := newBackend(cfg)
			defer b.Close()
			br := backend.NewBrowser(b)
			defer br.Close()

			br.Navigate(dir)
			br.Wait()
			if err := br.Err(); err != nil {
				return err
			}

			entries := br.SortedListing(cfg.Listing.FoldersFirst)
			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			for _, e := range entries {
				if e.IsFolder {
					fmt.Fprintln(out, folderText(e.Name+string(filepath.Separator)))
					continue
				}
				fmt.Fprintln(out, e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&hidden, "hidden", "a", false, "Include hidden entries")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output entries as JSON")

	return cmd
}

// targetDir resolves the optional directory argument, defaulting to the working directory.
func targetDir(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "error getting current directory")
	}
	return dir, nil
}
