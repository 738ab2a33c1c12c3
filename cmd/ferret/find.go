package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ferret/internal/errors"
	"ferret/internal/session"
	"ferret/pkg/types"

	"github.com/spf13/cobra"
)

// NewFindCmd creates the find command
func NewFindCmd() *cobra.Command {
	var (
		kind          string
		hidden        bool
		extension     bool
		caseSensitive bool
		anchor        bool
		follow        bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "find <pattern> [root]",
		Short: "Search a tree for matching files and folders",
		Long: `Search root (default: the working directory) recursively for entries whose
name matches pattern. Patterns are plain text, masks (*, ?) or regular
expressions. Press Ctrl+C to stop the search early.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := targetDir(args[1:])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("kind") {
				k, err := types.ParsePatternKind(kind)
				if err != nil {
					return err
				}
				cfg.Search.DefaultKind = k
			}
			if flags.Changed("hidden") {
				cfg.Search.IncludeHidden = hidden
			}
			if flags.Changed("ext") {
				cfg.Search.IncludeExtensionInMatch = extension
			}
			if flags.Changed("case-sensitive") {
				cfg.Search.CaseSensitive = caseSensitive
			}
			if flags.Changed("anchor") {
				cfg.Search.AnchorRegex = anchor
			}
			if flags.Changed("follow") {
				cfg.Search.FollowSymlinks = follow
			}

			b := newBackend(cfg)
			defer b.Close()

			events, unsubscribe := b.Subscribe()
			defer unsubscribe()

			h, err := b.FindFilesAndFolders(cmd.Context(), cfg.SearchRequest(root, args[0]))
			if errors.IsInvalidPattern(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), infoText("Use --kind to pick plain, mask or regex."))
			}
			if err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for {
				select {
				case <-sigChan:
					b.StopFinding()
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					if ev.Mode != session.Search || ev.Session != h.ID() {
						continue
					}
					if ev.Kind == session.Found {
						if jsonOutput {
							if err := enc.Encode(ev.Entry); err != nil {
								return err
							}
						} else {
							fmt.Fprintln(out, ev.Entry.Path)
						}
						continue
					}
					return reportSummary(cmd, *ev.Summary)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Pattern kind: plain, mask or regex (default from config)")
	cmd.Flags().BoolVarP(&hidden, "hidden", "a", false, "Search hidden entries")
	cmd.Flags().BoolVar(&extension, "ext", true, "Match against the full name including the extension")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match case-sensitively")
	cmd.Flags().BoolVar(&anchor, "anchor", false, "Require regular expressions to match the whole name")
	cmd.Flags().BoolVarP(&follow, "follow", "L", false, "Descend into symlinked directories")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output matches as JSON lines")

	return cmd
}

func reportSummary(cmd *cobra.Command, sum session.Summary) error {
	if sum.Err != nil {
		return sum.Err
	}
	w := cmd.ErrOrStderr()
	if sum.Stopped {
		fmt.Fprintln(w, warningText("stopped"))
	}
	fmt.Fprintln(w, infoText(fmt.Sprintf("%d matches in %s", sum.Count, sum.Elapsed().Round(time.Millisecond))))
	return nil
}
