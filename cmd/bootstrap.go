package cmd

import (
	"io"
	"log"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"workday-poller/internal"
	"workday-poller/internal/logging"
)

// app holds the shared resources used by the poll, import and server
// commands: validated config, the rotating file logger, the Workday client
// and the snapshot repository.
type app struct {
	cfg       *internal.Config
	logger    logging.Logger
	client    internal.WorkdayClient
	repo      internal.SnapshotRepository
	logCloser io.Closer
}

// bootstrap initialises shared resources. Config validation happens before
// any network call or file is touched; a validation failure aborts startup.
func bootstrap(configPath string) (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "Configuration error")
	}

	logger, logCloser, err := logging.New(cfg.LogFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logging")
	}

	db, err := internal.Connect(cfg.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	if err := internal.Migrate("migrations", cfg.DatabasePath); err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, errors.Wrap(err, "failed to migrate SQL")
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		client:    internal.NewWorkdayClient(cfg.Workday, logger, cfg.HTTPTimeout()),
		repo:      internal.NewSnapshotRepository(db),
		logCloser: logCloser,
	}, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		log.Printf("failed to close repository: %v", err)
	}
	if err := a.logCloser.Close(); err != nil {
		log.Printf("failed to close log file: %v", err)
	}
}
