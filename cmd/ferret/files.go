package main

import (
	"fmt"
	"path/filepath"

	"ferret/internal/backend"
	"ferret/internal/errors"
	"ferret/internal/fileops"

	"github.com/spf13/cobra"
)

// operatorBackend builds a backend whose file operations honour dryRun.
func operatorBackend(dryRun bool) *backend.Backend {
	op := fileops.CurrentOperatorFactory()
	op.SetDryRun(dryRun)
	return newBackend(cfg, backend.WithOperator(op))
}

// NewOpenCmd creates the open command
func NewOpenCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a file with its default application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			b := operatorBackend(dryRun)
			defer b.Close()

			if err := b.OpenFileInDefaultApplication(path); err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Would open %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be opened without launching anything")

	return cmd
}

// NewRmCmd creates the rm command
func NewRmCmd() *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete files and folders",
		Long:  `Delete files and folders recursively. Nothing is removed unless --yes is given.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !dryRun {
				return errors.Newf("refusing to delete %d entries without --yes", len(args))
			}

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				paths = append(paths, abs)
			}

			b := operatorBackend(dryRun)
			defer b.Close()

			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range b.DeleteEntries(paths) {
				switch {
				case res.Error != nil:
					failed++
					fmt.Fprintln(out, errorf("%s: %s", res.Path, deleteFailure(res.Error)))
				case dryRun:
					fmt.Fprintf(out, "Would delete %s\n", res.Path)
				default:
					fmt.Fprintln(out, successText("Deleted "+res.Path))
				}
			}
			if failed > 0 {
				return errors.Newf("%d of %d entries could not be deleted", failed, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be deleted without removing anything")

	return cmd
}

// deleteFailure turns a delete error into a short reason.
func deleteFailure(err error) string {
	switch {
	case errors.IsFileNotFound(err):
		return "no such file or folder"
	case errors.IsFileAccessDenied(err):
		return "permission denied"
	case errors.IsInvalidPath(err):
		return "refusing to delete a filesystem root"
	default:
		return err.Error()
	}
}
