package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"hairsim.com/hairsim/app"
	"hairsim.com/hairsim/config"
	"hairsim.com/hairsim/headless"
)

func init() {
	//GLFW event handling must run on the main thread
	runtime.LockOSThread()
}

type rootFlags struct {
	configPath string
	logFormat  string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "hairsim",
		Short:         "GPU hair strand simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config.yaml (empty uses defaults)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log output format: text or json")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newRunCmd(flags), newHeadlessCmd(flags), newConfigCmd(flags))
	return root
}

//setup loads the configuration and installs the default logger
func (f *rootFlags) setup() (*config.Config, *slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", f.logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(f.logFormat) {
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", f.logFormat)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	var profileMode string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and simulate interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}
			switch profileMode {
			case "":
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			default:
				return fmt.Errorf("unknown profile mode %q", profileMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return app.Run(ctx, cfg, flags.configPath, logger)
		},
	}
	cmd.Flags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	return cmd
}

func newHeadlessCmd(flags *rootFlags) *cobra.Command {
	opts := headless.Options{}
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Step the simulation against the in-memory device",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			logger.Info("starting headless simulation",
				"frames", opts.Frames,
				"dt", opts.DT,
				"strands", cfg.Hair.InitialStrands,
				"profile", cfg.Hair.Profile,
			)
			_, err = headless.Run(ctx, cfg, opts, logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&opts.Frames, "frames", 600, "frames to simulate")
	cmd.Flags().Float32Var(&opts.DT, "dt", 0, "frame time in seconds (0 uses the warmup dt)")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "directory for csv step logs and the config snapshot")
	cmd.Flags().IntVar(&opts.GrowEvery, "grow-every", 0, "add a strand step every n frames (0 disables)")
	return cmd
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dump [path]",
		Short: "Write the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.setup()
			if err != nil {
				return err
			}
			out := ""
			if len(args) == 1 {
				out = args[0]
			}
			return cfg.WriteYAML(out)
		},
	})
	return cmd
}
