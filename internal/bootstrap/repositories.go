package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/ashfall/internal/activity"
	"github.com/osse101/ashfall/internal/config"
	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/database"
	"github.com/osse101/ashfall/internal/database/postgres"
	"github.com/osse101/ashfall/internal/handler"
)

// Stores holds the persistence used by the application. Pool and Redis are nil
// when the matching URL is not configured and the in-memory store is used.
type Stores struct {
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	Known      crafting.KnownRecipeRepository
	Activities activity.Store
}

// ReadinessChecks returns one check per external store in use
func (s *Stores) ReadinessChecks() []handler.Check {
	var checks []handler.Check
	if s.Pool != nil {
		checks = append(checks, handler.Check{Name: CheckPostgres, Pinger: s.Pool})
	}
	if s.Redis != nil {
		client := s.Redis
		checks = append(checks, handler.Check{Name: CheckRedis, Pinger: handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})})
	}
	return checks
}

// InitializeStores connects to PostgreSQL and Redis when configured. Known
// recipes fall back to memory without a database and suspended crafts fall
// back to memory without Redis.
func InitializeStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	ctx, cancel := context.WithTimeout(ctx, StartupTimeout)
	defer cancel()

	stores := &Stores{}

	if cfg.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, DBMaxIdleTime, DBMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		stores.Pool = pool
		stores.Known = postgres.NewKnownRecipeRepository(pool)
		slog.Info(LogMsgUsingPostgres)
	} else {
		stores.Known = crafting.NewMemoryKnownRecipes()
		slog.Info(LogMsgUsingMemoryKnown)
	}

	if cfg.RedisURL != "" {
		client, err := activity.NewRedisClient(cfg.RedisURL)
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedRedisClient, err)
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			stores.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedPingRedis, err)
		}
		stores.Redis = client
		stores.Activities = activity.NewRedisStore(client, cfg.ActivityTTL)
		slog.Info(LogMsgUsingRedis, "ttl", cfg.ActivityTTL)
	} else {
		stores.Activities = activity.NewMemoryStore()
		slog.Info(LogMsgUsingMemoryStore)
	}

	return stores, nil
}

// Close releases the database pool and the redis client
func (s *Stores) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
		s.Redis = nil
	}
	if s.Pool != nil {
		s.Pool.Close()
		s.Pool = nil
	}
}
