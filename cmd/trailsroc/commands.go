package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3/ffcli"

	"trailsroc/pkg/config"
	"trailsroc/pkg/diff"
	"trailsroc/pkg/export"
	"trailsroc/pkg/extract"
	"trailsroc/pkg/geo"
	"trailsroc/pkg/gpx"
	"trailsroc/pkg/pipeline"
	"trailsroc/pkg/query"
	"trailsroc/pkg/run"
	"trailsroc/pkg/store"
	"trailsroc/pkg/version"
)

type configured func(func(context.Context, *config.Config, []string) error) func(context.Context, []string) error

func buildCommand(withConfig configured) *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc build", flag.ExitOnError)
	rf := addRunFlags(fs)

	return &ffcli.Command{
		Name:       "build",
		ShortUsage: "trailsroc build [flags] [file ...]",
		ShortHelp:  "build GeoJSON features from the source documents and GPX files",
		FlagSet:    fs,
		Exec: withConfig(func(ctx context.Context, cfg *config.Config, args []string) error {
			rf.apply(cfg, args)
			return withRun(ctx, cfg, "build", func(rc *run.Context, st store.Store) error {
				return pipeline.NewRunner(cfg, rc, st, os.Stdout).Build(ctx)
			})
		}),
	}
}

func migrateCommand(withConfig configured) *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc migrate", flag.ExitOnError)
	rf := addRunFlags(fs)
	to := fs.Int("to", 0, "target schema version (0 = latest)")

	return &ffcli.Command{
		Name:       "migrate",
		ShortUsage: "trailsroc migrate [flags] [file ...]",
		ShortHelp:  "migrate source documents and GPX files one schema version forward",
		FlagSet:    fs,
		Exec: withConfig(func(ctx context.Context, cfg *config.Config, args []string) error {
			rf.apply(cfg, args)
			return withRun(ctx, cfg, "migrate", func(rc *run.Context, st store.Store) error {
				return pipeline.NewRunner(cfg, rc, st, os.Stdout).Migrate(ctx, *to)
			})
		}),
	}
}

const importHelp = `Each park directory holds park.json, Boundary.gpx, POI.gpx and one
subdirectory of trail GPX files per trail color. Output goes to -dest,
or to source_dir when no destination is set.`

func importCommand(withConfig configured) *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc import", flag.ExitOnError)
	rf := addRunFlags(fs)

	return &ffcli.Command{
		Name:       "import",
		ShortUsage: "trailsroc import [flags] <park dir> ...",
		ShortHelp:  "assemble park directories into version 5 source files",
		LongHelp:   importHelp,
		FlagSet:    fs,
		Exec: withConfig(func(ctx context.Context, cfg *config.Config, args []string) error {
			if len(args) == 0 {
				return usageError(fs)
			}
			rf.apply(cfg, nil)
			return withRun(ctx, cfg, "import", func(rc *run.Context, st store.Store) error {
				return pipeline.NewRunner(cfg, rc, st, os.Stdout).Import(ctx, args)
			})
		}),
	}
}

func queryCommand(withConfig configured) *ffcli.Command {
	return &ffcli.Command{
		Name:       "query",
		ShortUsage: "trailsroc query <query> <file.geojson> ...",
		ShortHelp:  "select features by type and print a property",
		LongHelp:   query.Usage,
		Exec: withConfig(func(_ context.Context, cfg *config.Config, args []string) error {
			return runQuery(args, cfg.Namespace, os.Stdout, os.Stderr)
		}),
	}
}

// usageError prints the command usage and reports a usage error to main.
func usageError(fs *flag.FlagSet) error {
	fs.Usage()
	return flag.ErrHelp
}

var (
	errNoQuery      = errors.New("no query given")
	errNoQueryFiles = errors.New("no files to query")
)

// runQuery evaluates args[0] over the files args[1:]. Input errors print the
// query syntax to stderr.
func runQuery(args []string, namespace string, stdout, stderr io.Writer) error {
	if len(args) == 1 && args[0] == "help" {
		fmt.Fprintln(stdout, query.Usage)
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(stderr, query.Usage)
		return errNoQuery
	}
	q, err := query.Parse(args[0], namespace)
	if err != nil {
		fmt.Fprintln(stderr, query.Usage)
		return err
	}
	if len(args) < 2 {
		fmt.Fprintln(stderr, query.Usage)
		return errNoQueryFiles
	}
	for _, path := range args[1:] {
		if _, err := q.RunFile(path, stdout); err != nil {
			return err
		}
	}
	return nil
}

func boundsCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "bounds",
		ShortUsage: "trailsroc bounds <file.gpx> ...",
		ShortHelp:  "print park and trail bounds found in GPX files",
		Exec: func(_ context.Context, args []string) error {
			for _, path := range args {
				g, err := gpx.Load(path)
				if err != nil {
					return err
				}
				e, err := extract.Bounds(g)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				data, err := json.MarshalIndent(e, "", "  ")
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", data)
			}
			return nil
		},
	}
}

func poiCommand() *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc poi2json", flag.ExitOnError)

	return &ffcli.Command{
		Name:       "poi2json",
		ShortUsage: "trailsroc poi2json <file.gpx>",
		ShortHelp:  "print GPX waypoints as JSON POI records",
		FlagSet:    fs,
		Exec: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return usageError(fs)
			}
			g, err := gpx.Load(args[0])
			if err != nil {
				return err
			}
			recs, err := extract.POIs(g)
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(recs))
			for _, r := range recs {
				lines = append(lines, string(r))
			}
			fmt.Println(strings.Join(lines, ",\n"))
			return nil
		},
	}
}

func diffCommand(withConfig configured) *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc diff", flag.ExitOnError)

	return &ffcli.Command{
		Name:       "diff",
		ShortUsage: "trailsroc diff <a.geojson> <b.geojson>",
		ShortHelp:  "compare two feature collections by feature id",
		FlagSet:    fs,
		Exec: withConfig(func(_ context.Context, cfg *config.Config, args []string) error {
			if len(args) != 2 {
				return usageError(fs)
			}
			a, err := geo.LoadCollection(args[0])
			if err != nil {
				return err
			}
			b, err := geo.LoadCollection(args[1])
			if err != nil {
				return err
			}
			return diff.Compare(a, b, cfg.Namespace).Write(os.Stdout, args[0], args[1])
		}),
	}
}

func exportCommand(withConfig configured) *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc export", flag.ExitOnError)
	format := fs.String("format", "kml", "output format: kml or shp")
	out := fs.String("out", "", "output file (kml, default stdout) or directory (shp, default .)")

	return &ffcli.Command{
		Name:       "export",
		ShortUsage: "trailsroc export [flags] <file.geojson>",
		ShortHelp:  "convert a built feature collection to KML or Shapefiles",
		FlagSet:    fs,
		Exec: withConfig(func(_ context.Context, cfg *config.Config, args []string) error {
			if len(args) != 1 {
				return usageError(fs)
			}
			fc, err := geo.LoadCollection(args[0])
			if err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

			switch *format {
			case "kml":
				b, err := bundleFor(cfg)
				if err != nil {
					return err
				}
				w := os.Stdout
				if *out != "" {
					f, err := os.Create(*out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return export.KML(w, fc, export.KMLOptions{Name: base, Namespace: cfg.Namespace, Bundle: b})
			case "shp":
				dir := *out
				if dir == "" {
					dir = "."
				}
				paths, err := export.Shapefiles(dir, base, fc, cfg.Namespace)
				for _, p := range paths {
					fmt.Println(p)
				}
				return err
			default:
				return fmt.Errorf("unknown export format %q", *format)
			}
		}),
	}
}

func roundCommand() *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc round", flag.ExitOnError)
	decimals := fs.Int("decimals", 6, "decimal places kept on coordinates")

	return &ffcli.Command{
		Name:       "round",
		ShortUsage: "trailsroc round [flags] <in.gpx> <out.gpx>",
		ShortHelp:  "round GPX coordinates",
		FlagSet:    fs,
		Exec: func(_ context.Context, args []string) error {
			if len(args) != 2 {
				return usageError(fs)
			}
			g, err := gpx.Load(args[0])
			if err != nil {
				return err
			}
			n := g.Round(*decimals)
			if err := g.Save(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "rounded %d points\n", n)
			return nil
		},
	}
}

func historyCommand(withConfig configured) *ffcli.Command {
	fs := flag.NewFlagSet("trailsroc history", flag.ExitOnError)
	limit := fs.Int("n", 20, "number of runs to list (-1 = all)")

	return &ffcli.Command{
		Name:       "history",
		ShortUsage: "trailsroc history [flags] [run-id]",
		ShortHelp:  "list recorded runs, or the files of one run",
		FlagSet:    fs,
		Exec: withConfig(func(ctx context.Context, cfg *config.Config, args []string) error {
			if cfg.Ledger.Path == "" {
				return errors.New("ledger is disabled: set ledger.path")
			}
			dbConn, st, err := initLedger(cfg.Ledger.Path)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 1 {
				files, err := st.GetRunFiles(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "FILE\tOUTCOME\tFEATURES\tDIGEST\tOUTPUT")
				for _, f := range files {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", f.File, f.Outcome, f.Features, f.Digest, f.Output)
				}
				return nil
			}

			runs, err := st.ListRuns(ctx, *limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "RUN\tCOMMAND\tSTATUS\tSTARTED\tFEATURES\tWARNINGS\tERROR")
			for _, r := range runs {
				cmd := r.Command
				if r.DryRun {
					cmd += " (dry)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID, cmd, r.Status, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Features, r.Warnings, r.Error)
			}
			return nil
		}),
	}
}

func initConfigCommand(configFile *string) *ffcli.Command {
	return &ffcli.Command{
		Name:       "init-config",
		ShortUsage: "trailsroc init-config",
		ShortHelp:  "write the default config file if it does not exist",
		Exec: func(context.Context, []string) error {
			if err := config.GenerateDefault(*configFile); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Printf("Config file generated: %s\n", *configFile)
			return nil
		},
	}
}

func versionCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:      "version",
		ShortHelp: "print the tool version",
		Exec: func(context.Context, []string) error {
			fmt.Println(version.Version)
			return nil
		},
	}
}
