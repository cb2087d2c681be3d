package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/indigo-web/minihttp"
	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/rs/zerolog"
)

type flags struct {
	addr         string
	directory    string
	workers      int
	readTimeout  time.Duration
	configPath   string
	logLevel     string
	logPretty    bool
	otlpEndpoint string
	// explicit holds names of flags set on the command line
	explicit map[string]bool
}

func newFlagSet(f *flags) *flag.FlagSet {
	defaults := config.Default()
	set := flag.NewFlagSet("minihttp", flag.ContinueOnError)
	set.StringVar(&f.addr, "addr", "127.0.0.1:4221", "address to listen on")
	set.StringVar(&f.directory, "directory", "", "directory files are stored in (default <cwd>/file_directory)")
	set.IntVar(&f.workers, "workers", defaults.Pool.Workers, "number of workers")
	set.DurationVar(&f.readTimeout, "read-timeout", defaults.NET.ReadTimeout, "idle read timeout")
	set.StringVar(&f.configPath, "config", "", "JSON config file")
	set.StringVar(&f.logLevel, "log-level", "info", "log level")
	set.BoolVar(&f.logPretty, "log-pretty", false, "human-friendly log output")
	set.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/gRPC endpoint metrics are exported to")

	return set
}

func parseFlags(args []string) (flags, error) {
	f := flags{explicit: make(map[string]bool)}
	set := newFlagSet(&f)
	if err := set.Parse(args); err != nil {
		return f, err
	}

	set.Visit(func(fl *flag.Flag) {
		f.explicit[fl.Name] = true
	})

	return f, nil
}

// loadConfig reads the config file, if given, and overrides it with explicitly set flags.
func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if len(f.configPath) > 0 {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	if len(f.directory) > 0 {
		cfg.Storage.Root = f.directory
	}

	if !filepath.IsAbs(cfg.Storage.Root) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}

		cfg.Storage.Root = filepath.Join(wd, cfg.Storage.Root)
	}

	if f.explicit["workers"] {
		cfg.Pool.Workers = f.workers
	}

	if f.explicit["read-timeout"] {
		cfg.NET.ReadTimeout = f.readTimeout
	}

	return cfg, cfg.Validate()
}

func newLogger(f flags) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}

	log := zerolog.New(os.Stderr)
	if f.logPretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return log.Level(level).With().Timestamp().Logger(), nil
}

func run(ctx context.Context, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	log, err := newLogger(f)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	app := minihttp.New(f.addr).
		Tune(cfg).
		Logger(log)

	if len(f.otlpEndpoint) > 0 {
		provider, err := newMeterProvider(ctx, f.otlpEndpoint)
		if err != nil {
			return err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to flush metrics")
			}
		}()

		app.MeterProvider(provider)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("interrupted, shutting down")
		_ = app.GracefulStop()
	}()

	log.Info().
		Str("storage", cfg.Storage.Root).
		Msg("starting")

	if err = app.Serve(nil); !errors.Is(err, status.ErrShutdown) {
		return err
	}

	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		zerolog.New(os.Stderr).Fatal().Err(err).Msg("minihttp")
	}
}
