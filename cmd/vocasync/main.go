package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/catalog/vocadb"
	"github.com/sydlexius/vocasync/internal/config"
	"github.com/sydlexius/vocasync/internal/engine"
	"github.com/sydlexius/vocasync/internal/logging"
	"github.com/sydlexius/vocasync/internal/version"
)

const defaultConfigPath = "vocasync.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sync subcommands depend on the configured instances, so the config
	// is loaded before the command tree exists.
	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	instances, err := cfg.ResolveInstances()
	if err != nil {
		return fmt.Errorf("resolving instances: %w", err)
	}

	logCfg := cfg.Logging
	if logCfg.Format == "" {
		logCfg.Format = "json"
		if term.IsTerminal(int(os.Stderr.Fd())) { //nolint:gosec // fd fits in int
			logCfg.Format = "text"
		}
	}
	logManager, logger := logging.NewManager(logCfg, os.Stderr)
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)
	logger.Debug("logging configured", slog.String("config", logCfg.String()))

	a := &app{
		cfg:       cfg,
		logs:      logManager,
		logger:    logger,
		registry:  newRegistry(instances, logger),
		instances: instances,
		out:       os.Stdout,
	}
	return a.rootCmd().ExecuteContext(ctx)
}

// configPath finds --config in args before cobra parses them, then falls
// back to VOCASYNC_CONFIG and the default path.
func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("VOCASYNC_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}

func newRegistry(instances []catalog.Instance, logger *slog.Logger) *catalog.Registry {
	limiters := catalog.NewRateLimiterMap()
	registry := catalog.NewRegistry()
	for _, inst := range instances {
		limiters.Set(inst.Name, inst.Settings.RequestsPerSecond)
		registry.Register(vocadb.New(inst, limiters, logger))
	}
	return registry
}

// app carries the process-wide dependencies of the commands.
type app struct {
	cfg       *config.Config
	logs      *logging.Manager
	logger    *slog.Logger
	registry  *catalog.Registry
	instances []catalog.Instance
	out       io.Writer

	instanceName string
	logLevel     string
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocasync",
		Short:         "Resolve and normalize track metadata from VocaDB-family catalogs",
		Version:       fmt.Sprintf("%s (%s)", version.Version, version.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if a.logLevel == "" {
				return nil
			}
			if !logging.ValidLevel(a.logLevel) {
				return fmt.Errorf("unknown log level %q", a.logLevel)
			}
			a.logs.SetLevel(a.logLevel)
			a.logger.Debug("log level overridden", slog.String("level", a.logs.Level()))
			return nil
		},
	}

	// Parsed early by configPath; declared so cobra accepts it.
	root.PersistentFlags().String("config", defaultConfigPath, "config file path")
	root.PersistentFlags().StringVar(&a.instanceName, "instance", catalog.NameVocaDB, "catalog instance to query")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		a.searchTrackCmd(),
		a.searchAlbumCmd(),
		a.trackCmd(),
		a.albumCmd(),
		a.instancesCmd(),
	)
	for _, inst := range a.instances {
		root.AddCommand(a.syncCmd(inst))
	}
	return root
}

// engine returns the resolution engine for the --instance flag.
func (a *app) engine() (*engine.Engine, error) {
	client := a.registry.Get(a.instanceName)
	if client == nil {
		return nil, fmt.Errorf("unknown instance %q", a.instanceName)
	}
	return engine.New(client, nil, a.logger), nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
