package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	core "github.com/3cpo-dev/towerctl/internal/core"
	"github.com/3cpo-dev/towerctl/internal/telemetry"
)

var (
	version   = "1.0.0"
	commit    = ""
	buildDate = "10/19/2026"
)

// app carries state resolved before any subcommand runs
type app struct {
	cfg core.Config
}

// Create the root command
func newRootCmd() *cobra.Command {
	a := &app{cfg: core.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "towerctl",
		Short: "towerctl: a control tower that routes flights through a single mediator",
		Long:  "towerctl registers a small fleet with one control tower and lets the flights ask it for new routes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("log", "l", "info", "Set log level. Available: trace, debug, info, warn, error, fatal")
	cmd.PersistentFlags().String("config", "", "config file")

	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		cfgPath, _ := c.Flags().GetString("config")
		cfg, err := core.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		levelStr := cfg.LogLevel
		if c.Flags().Changed("log") {
			levelStr, _ = c.Flags().GetString("log")
		}
		setLogLevel(levelStr)
		telemetry.InitGlobal(cfg.Telemetry.Enabled)
		return nil
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newRequestCmd(a))
	cmd.AddCommand(newRosterCmd())
	return cmd
}

// Create the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Needs no config; overrides the root hook.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "towerctl %s (%s) %s\n", version, commit, buildDate)
		},
	}
}

func setLogLevel(levelStr string) {
	switch levelStr {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Setup the logger
func setupLogger() {
	level := zerolog.InfoLevel
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(level)
}

// Execute the root command and return the process exit code. Telemetry is
// flushed here because cobra skips post-run hooks when a command fails.
func run(args []string) int {
	root := newRootCmd()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	telemetry.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// Main entry point
func main() {
	setupLogger()
	os.Exit(run(os.Args[1:]))
}
