package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"gothesis/internal"
	"gothesis/internal/config"
)

// app is the state shared by every subcommand once the root flags are parsed
type app struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
	log      *internal.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "gothesis",
		Short:         "Statistical analysis for thesis datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (defaults < file < GOTHESIS_* env)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log level: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newRunCmd(a),
		newKindsCmd(),
		newBatchCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToUpper(a.logLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = cfg.Logger()
	return nil
}
