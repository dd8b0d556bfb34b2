package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danthegoodman1/bikeshare/cli"
	"github.com/danthegoodman1/bikeshare/config"
	"github.com/danthegoodman1/bikeshare/crdb"
	"github.com/danthegoodman1/bikeshare/datastore"
	"github.com/danthegoodman1/bikeshare/gologger"
	"github.com/danthegoodman1/bikeshare/http_server"
	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/danthegoodman1/bikeshare/metrics"
	"github.com/danthegoodman1/bikeshare/migrations"
	"github.com/danthegoodman1/bikeshare/query"
)

var logger = gologger.NewLogger()

const usage = `usage: bikeshare [command] [flags]

commands:
  query    interactive prompt session (default)
  serve    HTTP API
  convert  write a city's trips as parquet: convert -city chicago -out chicago.parquet
  migrate  apply the SQL migrations to CRDB_DSN
`

func main() {
	cmd := "query"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "", "path to the YAML config (default $CONFIG_PATH or bikeshare.yml)")
	envFile := fs.String("env", "", "path to a .env file (default .env if present)")
	city := fs.String("city", "", "city to convert")
	out := fs.String("out", "", "parquet output path for convert")
	_ = fs.Parse(args)

	if err := config.LoadEnvFile(logger, *envFile); err != nil {
		logger.Error().Err(err).Msg("error loading env file")
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("error loading config")
		os.Exit(1)
	}

	ctx := context.Background()
	switch cmd {
	case "query":
		err = runQuery(ctx, cfg)
	case "serve":
		err = runServe(ctx, cfg)
	case "convert":
		err = runConvert(ctx, cfg, *city, *out)
	case "migrate":
		err = runMigrate(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}

func usesSQL(cfg config.AppConfig) bool {
	for _, c := range cfg.Cities {
		if c.Format == loader.FormatSQL {
			return true
		}
	}
	return false
}

func usesS3(cfg config.AppConfig) bool {
	for _, c := range cfg.Cities {
		if datastore.IsS3Location(c.Location) {
			return true
		}
	}
	return false
}

// newLoader wires the datastores and database the configured cities need. The returned
// cleanup releases them.
func newLoader(ctx context.Context, cfg config.AppConfig) (*loader.Loader, func(), error) {
	router := &datastore.Router{Disk: datastore.NewDiskDataStore(cfg.DataDir)}
	if usesS3(cfg) {
		s3, err := datastore.NewS3DataStore(cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("error in NewS3DataStore: %w", err)
		}
		router.S3 = s3
	}
	opts := []loader.Option{loader.WithDataStore(router)}

	var db *sql.DB
	if usesSQL(cfg) {
		if cfg.DB.DSN == "" {
			return nil, nil, errors.New("a city uses the sql format but CRDB_DSN is not set")
		}
		var err error
		db, err = crdb.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to CRDB: %w", err)
		}
		if err := migrations.CheckMigrations(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("error checking migrations: %w", err)
		}
		opts = append(opts, loader.WithDB(db))
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := router.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown datastore")
		}
		if db != nil {
			db.Close()
		}
	}
	return loader.New(cfg.Cities, opts...), cleanup, nil
}

func runQuery(ctx context.Context, cfg config.AppConfig) error {
	quiet := gologger.NewQuietLogger()
	ctx = quiet.WithContext(ctx)

	l, cleanup, err := newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return cli.NewSession(os.Stdin, os.Stdout, query.NewRunner(l, nil)).Run(ctx)
}

func runServe(ctx context.Context, cfg config.AppConfig) error {
	logger.Debug().Msg("starting bikeshare api")

	l, cleanup, err := newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer, err := http_server.StartHTTPServer(cfg.Server.Port, l, metrics.NewPrometheusRecorder())
	if err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Warn().Msg("received shutdown signal!")

	// For AWS ALB needing some time to de-register pod
	sleepTime := cfg.ShutdownSleepSec
	logger.Info().Msg(fmt.Sprintf("sleeping for %ds before exiting", sleepTime))

	time.Sleep(time.Second * time.Duration(sleepTime))
	logger.Info().Msg(fmt.Sprintf("slept for %ds, exiting", sleepTime))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown HTTP server")
	} else {
		logger.Info().Msg("successfully shutdown HTTP server")
	}
	return nil
}

func runConvert(ctx context.Context, cfg config.AppConfig, city, out string) error {
	if city == "" || out == "" {
		return errors.New("convert needs -city and -out")
	}
	l, cleanup, err := newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	s := time.Now()
	n, err := convertCity(ctx, l, city, out)
	if err != nil {
		return err
	}
	logger.Info().Str("city", city).Str("out", out).Int("rows", n).Dur("elapsed", time.Since(s)).Msg("converted")
	return nil
}

func runMigrate(ctx context.Context, cfg config.AppConfig) error {
	if cfg.DB.DSN == "" {
		return errors.New("migrate needs CRDB_DSN")
	}
	db, err := crdb.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("error connecting to CRDB: %w", err)
	}
	defer db.Close()

	n, err := migrations.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	logger.Info().Int("applied", n).Msg("ran migrations")
	return nil
}
