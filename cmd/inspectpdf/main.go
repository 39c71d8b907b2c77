package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/wudi/inspectkit/cache"
	"github.com/wudi/inspectkit/config"
	"github.com/wudi/inspectkit/fonts"
	"github.com/wudi/inspectkit/observability"
	"github.com/wudi/inspectkit/report"
	"github.com/wudi/inspectkit/store"
	"github.com/wudi/inspectkit/store/mysqlstore"
	"github.com/wudi/inspectkit/store/pgstore"
)

type options struct {
	conf *config.Conf
	ids  []string
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspectpdf: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, opts, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "inspectpdf: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags loads the config file, then applies the flags that were set
// explicitly on top of it.
func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inspectpdf [flags] <id>...\n")
		fs.PrintDefaults()
	}
	confPath := fs.String("config", "", "JSON configuration file")
	source := fs.String("source", "", "Inspection source: file, postgres or mysql")
	dir := fs.String("dir", "", "Directory of <id>.json files for the file source")
	out := fs.String("out", "", "Output directory for <id>.pdf")
	lang := fs.String("lang", "", "Label language: fr or en")
	fit := fs.Bool("fit-columns", false, "Truncate cells to the measured column width")
	workers := fs.Int("workers", 0, "Number of reports generated concurrently")
	level := fs.String("log-level", "", "Log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	conf, err := config.Load(*confPath)
	if err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			conf.Source = *source
		case "dir":
			conf.Dir = *dir
		case "out":
			conf.Out = *out
		case "lang":
			conf.Lang = *lang
		case "fit-columns":
			conf.FitColumns = *fit
		case "workers":
			conf.Workers = *workers
		case "log-level":
			conf.LogLevel = *level
		}
	})
	if err := conf.Validate(); err != nil {
		return options{}, err
	}
	if fs.NArg() == 0 {
		return options{}, errors.New("at least one inspection id is required")
	}
	return options{conf: conf, ids: fs.Args()}, nil
}

func run(ctx context.Context, opts options, logOut io.Writer) error {
	conf := opts.conf
	level, err := observability.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	logger := observability.NewStdLogger(log.New(logOut, "", log.LstdFlags), level).
		With(observability.String("component", "Inspectpdf"))

	for _, id := range opts.ids {
		if err := store.ValidateID(id); err != nil {
			return err
		}
	}

	src, closeSrc, err := openSource(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	reports, closeCache, err := openCache(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	genOpts := []report.Option{
		report.WithLogger(logger.With(observability.String("component", "Report"))),
		report.WithLabels(report.LabelsFor(conf.Lang)),
	}
	if conf.FitColumns {
		shaper, err := fonts.NewShaper(fonts.GoRegular())
		if err != nil {
			return fmt.Errorf("load shaper: %w", err)
		}
		genOpts = append(genOpts, report.WithTruncation(report.FitColumn{Measurer: shaper}))
	}
	ttl, _ := conf.TTL()
	gen := cache.NewGenerator(report.New(genOpts...), reports, ttl, logger)

	if err := os.MkdirAll(conf.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(conf.Workers)
	for _, id := range opts.ids {
		g.Go(func() error {
			env, err := src.Load(gctx, id)
			if err != nil {
				return fmt.Errorf("load %s: %w", id, err)
			}
			pdf, err := gen.Generate(gctx, *env)
			if err != nil {
				return fmt.Errorf("generate %s: %w", id, err)
			}
			path := filepath.Join(conf.Out, id+".pdf")
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Info("report written", observability.String("id", id), observability.String("path", path))
			return nil
		})
	}
	return g.Wait()
}

func openSource(ctx context.Context, conf *config.Conf, logger observability.Logger) (store.Source, func(), error) {
	switch conf.Source {
	case config.SourcePostgres:
		s, err := pgstore.Open(ctx, *conf.Postgres, conf.Table, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.SourceMySQL:
		s, err := mysqlstore.Open(ctx, *conf.MySQL, conf.Table, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return store.FileSource{Dir: conf.Dir}, func() {}, nil
	}
}

// openCache prefers Redis when configured and reachable, and falls back to
// an in-process cache otherwise.
func openCache(ctx context.Context, conf *config.Conf, logger observability.Logger) (cache.Cache, func(), error) {
	if conf.Redis == nil {
		return cache.NewMemory(), func() {}, nil
	}
	r := cache.NewRedis(*conf.Redis, "")
	if err := r.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, using memory cache", observability.Error("err", err))
		r.Close()
		return cache.NewMemory(), func() {}, nil
	}
	return r, func() { r.Close() }, nil
}
