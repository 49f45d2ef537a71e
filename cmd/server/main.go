package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/config"
	"github.com/tn-lorenz/SteelMC/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:   "steelmc",
		Short: "A Minecraft Java Edition server core",
	}
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start listening for connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			run(configPath, verbose)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "steelmc.toml", "path to the server's TOML configuration file")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	return cmd
}

// run carries the exit codes: 0 normal, 1 config error, 2 bind error,
// 3 fatal runtime error.
func run(configPath string, verbose bool) {
	log, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error("config", zap.Error(err))
		os.Exit(1)
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("startup", zap.Error(err))
		os.Exit(3)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Error("server exited with error", zap.Error(err))
		if errors.Is(err, server.ErrBind) {
			os.Exit(2)
		}
		os.Exit(3)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
