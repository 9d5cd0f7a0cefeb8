package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"trailsroc/pkg/bundle"
	"trailsroc/pkg/config"
	"trailsroc/pkg/db"
	"trailsroc/pkg/db/maintenance"
	"trailsroc/pkg/logging"
	"trailsroc/pkg/metrics"
	"trailsroc/pkg/run"
	"trailsroc/pkg/store"
	"trailsroc/pkg/version"
)

const defaultConfigPath = "configs/trailsroc.yaml"

func main() {
	var (
		rootFlagSet = flag.NewFlagSet("trailsroc", flag.ExitOnError)
		configFile  = rootFlagSet.String("config", defaultConfigPath, "config file")
		envFile     = rootFlagSet.String("env", ".env", "environment file")
	)

	withConfig := func(inner func(context.Context, *config.Config, []string) error) func(context.Context, []string) error {
		return func(ctx context.Context, args []string) error {
			if err := config.LoadEnv(*envFile); err != nil {
				return err
			}
			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cleanupLogs, err := logging.Init(&cfg.Log, os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			defer cleanupLogs()

			return inner(ctx, cfg, args)
		}
	}

	root := &ffcli.Command{
		ShortUsage: "trailsroc [flags] <subcommand>",
		ShortHelp:  "build and migrate trail map data",
		LongHelp:   "trailsroc " + version.Version,
		FlagSet:    rootFlagSet,
		Options:    []ff.Option{ff.WithEnvVarPrefix("TRAILSROC")},
		Subcommands: []*ffcli.Command{
			buildCommand(withConfig),
			migrateCommand(withConfig),
			importCommand(withConfig),
			queryCommand(withConfig),
			boundsCommand(),
			poiCommand(),
			diffCommand(withConfig),
			exportCommand(withConfig),
			roundCommand(),
			historyCommand(withConfig),
			initConfigCommand(configFile),
			versionCommand(),
		},
		Exec: func(context.Context, []string) error {
			return usageError(rootFlagSet)
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		// Usage errors have already printed the command usage
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// runFlags are shared by the commands that read the source directory.
type runFlags struct {
	fs     *flag.FlagSet
	dest   *string
	dryRun *bool
	pretty *bool
}

func addRunFlags(fs *flag.FlagSet) *runFlags {
	return &runFlags{
		fs:     fs,
		dest:   fs.String("dest", "", "destination directory (overrides dest_dir)"),
		dryRun: fs.Bool("dry-run", false, "validate and print instead of writing"),
		pretty: fs.Bool("pretty", true, "indent JSON output"),
	}
}

// apply copies the flags given on the command line over cfg.
func (f *runFlags) apply(cfg *config.Config, args []string) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dest":
			cfg.DestDir = *f.dest
		case "dry-run":
			cfg.DryRun = *f.dryRun
		case "pretty":
			cfg.Pretty = *f.pretty
		}
	})
	if len(args) > 0 {
		cfg.Files = args
	}
}

// withRun creates the run context and, when configured, opens the ledger
// and runs its maintenance before calling inner.
func withRun(ctx context.Context, cfg *config.Config, command string, inner func(*run.Context, store.Store) error) error {
	rc := run.New(slog.Default(), metrics.New(command, version.Version))

	b, err := bundleFor(cfg)
	if err != nil {
		return err
	}
	rc.Bundle = b

	var st store.Store
	if cfg.Ledger.Path != "" {
		dbConn, sqlStore, err := initLedger(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer dbConn.Close()
		st = sqlStore

		if err := maintenance.Run(ctx, st, dbConn, time.Duration(cfg.Ledger.Retention)); err != nil {
			slog.Error("Ledger maintenance failed", "error", err)
		}
	}

	slog.Debug("trailsroc started", "version", version.Version, "command", command)
	return inner(rc, st)
}

func initLedger(path string) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

func bundleFor(cfg *config.Config) (*bundle.Bundle, error) {
	return bundle.Load(cfg.BundlePath())
}
