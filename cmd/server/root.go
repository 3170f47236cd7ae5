package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chanserv/internal/app"
	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/log"
)

type serveOptions struct {
	configPath string
	overrides  config.Config
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "chanserv",
		Short:        "Line-based chat server with owned public and invite-only channels",
		SilenceUsage: true,
	}

	var opts serveOptions
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./chanserv.yaml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat server",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.overrides.LogLevel == "" {
				return nil
			}
			if _, ok := log.ParseLevel(opts.overrides.LogLevel); !ok {
				return fmt.Errorf("unknown log level %q", opts.overrides.LogLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().StringVar(&opts.overrides.Addr, "addr", "", "HTTP listen address")
	serve.Flags().StringVar(&opts.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	serve.Flags().StringVar(&opts.overrides.ServerName, "server-name", "", "name used as the prefix of server lines")
	serve.Flags().DurationVar(&opts.overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	root.AddCommand(serve)
	return root
}

func runServe(parent context.Context, opts serveOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	bootLog := log.New(opts.overrides.LogLevel)
	cfg, path, err := config.Load(bootLog, opts.configPath)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(opts.overrides)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", path).Str("addr", cfg.Addr).Str("server_name", cfg.ServerName).Msg("starting chanserv")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
