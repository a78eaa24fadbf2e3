package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pvaldes/travelbooking/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	storeWaitAttempts = 30
	storeWaitInterval = time.Second
)

// WaitForPostgres connects with a bounded retry budget: the store may still
// be coming up when the service starts. The pool caps concurrent connections
// and recycles idle ones.
func WaitForPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	for i := 0; i < storeWaitAttempts; i++ {
		if err = pool.Ping(ctx); err == nil {
			return pool, nil
		}
		slog.Info("waiting for postgres", "attempt", i+1, "max", storeWaitAttempts)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(storeWaitInterval):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("postgres not reachable after %d attempts: %w", storeWaitAttempts, err)
}

// WaitForMongo mirrors WaitForPostgres for the booking store.
func WaitForMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI).SetMaxConnIdleTime(5 * time.Minute)
	if cfg.MaxPool > 0 {
		opts = opts.SetMaxPoolSize(cfg.MaxPool)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	for i := 0; i < storeWaitAttempts; i++ {
		if err = client.Ping(ctx, nil); err == nil {
			return client, nil
		}
		slog.Info("waiting for mongo", "attempt", i+1, "max", storeWaitAttempts)
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(storeWaitInterval):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("mongo not reachable after %d attempts: %w", storeWaitAttempts, err)
}
