package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ferret/internal/backend"
	"ferret/internal/config"
	"ferret/internal/log"
	"ferret/internal/volume"
	"ferret/pkg/types"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.LogError(err, "Volume monitor failed")
		os.Exit(1)
	}
}

// NewRootCmd creates the daemon command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ferretd",
		Short:         "Watch mounted volumes and log when they come and go",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ferret/config.yaml)")

	return rootCmd
}

// loadConfig reads the config file, falling back to defaults, and configures logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nUsing default settings.\n", err)
		cfg = config.New()
	}
	if err := configureLogging(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run watches volumes until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	b := backend.New(cfg)
	defer b.Close()
	b.OnVolumesChanged(logChanges)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal catching for clean shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Stopping volume monitor")
		cancel()
	}()

	status := b.Monitor().Status()
	log.LogWithFields(
		log.F("interval", cfg.Volumes.PollInterval),
		log.F("mount_roots", status.MountRoots),
	).Info("Starting volume monitor")

	if err := b.RunVolumeMonitor(ctx); err != nil {
		return err
	}

	status = b.Monitor().Status()
	log.LogWithFields(log.F("polls", status.Polls), log.F("volumes", status.Volumes)).Info("Volume monitor stopped")
	return nil
}

func configureLogging(lc config.Logging) error {
	if lc.File != "" {
		log.Configure(log.WithFile(lc.File))
	}
	if err := log.SetLevel(lc.Level); err != nil {
		return err
	}
	return log.SetFormat(lc.Format)
}

func logChanges(old, new []types.VolumeInfo) {
	for _, mp := range volume.Added(old, new) {
		v, _ := volume.VolumeOf(new, mp)
		log.LogWithFields(
			log.F("mountpoint", mp),
			log.F("kind", string(v.Kind)),
			log.F("removable", v.IsRemovable),
			log.F("total_gb", v.TotalGB),
		).Info("Volume added")
	}
	for _, mp := range volume.Removed(old, new) {
		log.LogWithFields(log.F("mountpoint", mp)).Info("Volume removed")
	}
}
