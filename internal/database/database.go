// Package database opens the configured store backend and its sequence generator.
package database

import (
	"context"
	"fmt"

	"github.com/ArowuTest/lotto-backend/internal/config"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/lotto-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/lotto-backend/internal/repositories/redisseq"
	"github.com/ArowuTest/lotto-backend/internal/repositories/relational"
	"github.com/ArowuTest/lotto-backend/pkg/mongodb"
	log "github.com/sirupsen/logrus"
)

// Open connects the store selected by cfg.Store.Driver. Closing the
// returned store also closes the Redis sequence client when one is used.
func Open(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	var seq *redisseq.Generator
	if cfg.Sequence.Backend == config.SequenceRedis {
		g, err := redisseq.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		seq = g
	}

	store, err := openStore(ctx, cfg, seq)
	if err != nil {
		if seq != nil {
			_ = seq.Close()
		}
		return nil, err
	}

	if seq != nil {
		closeStore := store.Close
		store.Close = func(ctx context.Context) error {
			if err := seq.Close(); err != nil {
				log.WithError(err).Warn("Error closing Redis client")
			}
			return closeStore(ctx)
		}
	}

	log.WithFields(log.Fields{
		"driver":   cfg.Store.Driver,
		"sequence": cfg.Sequence.Backend,
	}).Info("store connected")
	return store, nil
}

func openStore(ctx context.Context, cfg *config.Config, seq *redisseq.Generator) (*repositories.Store, error) {
	// a typed nil must not reach the store constructors
	var generator repositories.SequenceGenerator
	if seq != nil {
		generator = seq
	}

	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := mongorepo.EnsureIndexes(ctx, client.Database(cfg.MongoDB.Database)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create MongoDB indexes: %w", err)
		}
		return mongorepo.NewStore(client, cfg.MongoDB.Database, generator), nil

	case config.DriverPostgres:
		db, err := relational.Open(relational.DialectPostgres, cfg.Postgres.DSN, relational.Options{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return relational.NewStore(db, generator), nil

	case config.DriverSQLite:
		db, err := relational.Open(relational.DialectSQLite, cfg.SQLite.Path, relational.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		return relational.NewStore(db, generator), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
