package app

import (
	"context"
	"fmt"

	"linkup/internal/config"
	dbmongo "linkup/internal/database/mongo"
	dbpostgres "linkup/internal/database/postgres"
	"linkup/internal/database/migration"
	"linkup/internal/domain/user"
	mongorepo "linkup/internal/infrastructure/persistence/mongo"
	pgrepo "linkup/internal/infrastructure/persistence/postgres"
)

// Conn is the connection behind a user store.
type Conn interface {
	Ping(ctx context.Context) error
	Close() error
}

// Store is an opened user repository with its connection.
type Store struct {
	Users user.Repository
	Conn  Conn
}

// OpenStore connects to the configured driver and prepares its schema.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := dbpostgres.Connect(ctx, cfg)
		if err != nil {
			return Store{}, err
		}
		if cfg.RunMigrations {
			if err := migration.Up(pool.SQLDB()); err != nil {
				_ = pool.Close()
				return Store{}, err
			}
		}
		return Store{Users: pgrepo.NewUserRepository(pool), Conn: pool}, nil

	case config.DriverMongo, "":
		client, err := dbmongo.Connect(ctx, cfg)
		if err != nil {
			return Store{}, err
		}
		repo := mongorepo.NewUserRepository(client.Database())
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Close()
			return Store{}, err
		}
		return Store{Users: repo, Conn: client}, nil

	default:
		return Store{}, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
