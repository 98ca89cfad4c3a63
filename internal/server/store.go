package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/donation-hub/internal/config"
	"github.com/sakif/donation-hub/internal/repository"
	mongoRepo "github.com/sakif/donation-hub/internal/repository/mongo"
	sqliteRepo "github.com/sakif/donation-hub/internal/repository/sqlite"
)

// store bundles the repositories of whichever backend DB_DRIVER selects,
// together with its lifecycle hooks.
type store struct {
	users     repository.UserRepository
	blogs     repository.BlogRepository
	resources repository.ResourceRepository
	close     func(ctx context.Context) error
	describe  string
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		s, err := mongoRepo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &store{
			users:     s.Users(),
			blogs:     s.Blogs(),
			resources: s.Resources(),
			close:     s.Close,
			describe:  "mongo:" + cfg.MongoDatabase,
		}, nil

	case config.DriverSQLite:
		if cfg.SQLitePath != ":memory:" {
			// os.MkdirAll is a no-op when the directory already exists.
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			users:     db.Users(),
			blogs:     db.Blogs(),
			resources: db.Resources(),
			close:     func(context.Context) error { return db.Close() },
			describe:  "sqlite:" + cfg.SQLitePath,
		}, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
