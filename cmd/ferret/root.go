package main

import (
	"fmt"
	"os"

	"ferret/internal/backend"
	"ferret/internal/config"
	"ferret/internal/errors"
	"ferret/internal/log"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile string
	noColor bool
	cfg     *config.Config

	// newBackend is swapped in tests to inject a volume source.
	newBackend = backend.New
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ferret",
		Short: "Browse directories and find files and folders",
		Long: `Ferret lists directories, searches trees by plain text, mask or
regular expression, and reports the mounted volumes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var configErr error
			if cfgFile != "" {
				cfg, configErr = config.LoadConfigFile(cfgFile)
			} else {
				cfg, configErr = config.LoadConfig()
			}
			if configErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), warningText(fmt.Sprintf("Warning: %v", configErr)))
				if errors.IsInvalidConfig(configErr) {
					fmt.Fprintln(cmd.ErrOrStderr(), infoText("Using default settings. Fix the file or rewrite it with 'ferret config init --force'."))
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), infoText("Using default settings. Run 'ferret config init' to create a config file."))
				}
				cfg = config.New()
			}
			useColor = !noColor && os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))
			return setupLogging(cmd, cfg.Logging)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ferret/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewLsCmd())
	rootCmd.AddCommand(NewFindCmd())
	rootCmd.AddCommand(NewVolumesCmd())
	rootCmd.AddCommand(NewOpenCmd())
	rootCmd.AddCommand(NewRmCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// setupLogging keeps log lines on stderr so listings can be piped.
func setupLogging(cmd *cobra.Command, lc config.Logging) error {
	if lc.File != "" {
		log.Configure(log.WithFile(lc.File))
	} else {
		log.Configure(log.WithOutput(cmd.ErrOrStderr()))
	}
	if err := log.SetLevel(lc.Level); err != nil {
		return err
	}
	return log.SetFormat(lc.Format)
}
