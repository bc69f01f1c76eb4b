package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/logging"
	"github.com/tally-dev/tally/internal/store"
	"github.com/tally-dev/tally/internal/store/memory"
	"github.com/tally-dev/tally/internal/store/postgres"
)

// env holds everything a subcommand needs to run.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store
	close func()
}

// newEnv loads config, builds the logger and opens the configured store.
func newEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	_ = godotenv.Load()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.Logging.Level)

	s, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, store: s, close: closeStore}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		url := cfg.Storage.URL
		if url == "" {
			url = os.Getenv("DATABASE_URL")
		}
		if url == "" {
			return nil, nil, fmt.Errorf("postgres driver requires storage.url or DATABASE_URL")
		}
		pg, err := postgres.Connect(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
