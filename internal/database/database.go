// Package database picks the storage backend named by configuration and
// hands back a ready repository.Store.
package database

import (
	"fmt"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/db"
	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/repository"
	"github.com/confreview/backend/internal/repository/gormstore"
	inmemdb "github.com/confreview/backend/internal/repository/inmem"
)

// Open connects to the configured backend. When migrate is true the
// Postgres schema is migrated before returning. The close func releases
// the connection.
func Open(cfg config.DatabaseConfig, migrate bool) (*repository.Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart", nil)
		return inmemdb.NewStore(inmemdb.New()), func() error { return nil }, nil
	case "postgres", "":
		gdb, err := db.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := db.AutoMigrate(gdb); err != nil {
				return nil, nil, err
			}
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return gormstore.NewStore(gdb), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
}
