package container

import (
	"context"
	"fmt"

	"rideadmin/pricing/internal/client"
	"rideadmin/pricing/internal/config"
	"rideadmin/pricing/internal/proxy"
	"rideadmin/pricing/internal/queue"
	"rideadmin/pricing/internal/repository"
	"rideadmin/pricing/internal/service"
	"rideadmin/pricing/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.AdminClient
	Repository repository.RuleSnapshotRepository
	Publisher  queue.Publisher
	Consumer   queue.Consumer
	Drafts     state.DraftStore

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container. Postgres and Redis are only connected when
// enabled in the config; without them submissions are not snapshotted, no
// audit events are published and drafts cannot be saved.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	var proxies proxy.Supplier
	if len(cfg.API.Proxies) > 0 {
		checkURL := cfg.API.ProxyCheckURL
		if checkURL == "" {
			checkURL = cfg.API.BaseURL
		}
		supplier, err := proxy.NewSupplier(ctx, cfg.API.Proxies, checkURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set up proxies: %w", err)
		}
		proxies = supplier
	}
	container.Client = client.NewAdminClient(cfg.API, proxies)

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db

		repo := repository.NewRuleSnapshotRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
		container.Repository = repo
		log.Info("✅ Connected to database successfully")
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		container.redis = rdb

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		publisher, err := queue.NewRedisPublisher(ctx, rdb, cfg.Redis)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.Publisher = publisher
		container.Consumer = queue.NewRedisConsumer(rdb, cfg.Redis)
		container.Drafts = state.NewRedisDraftStore(rdb, cfg.Redis.DraftTTL)
	}

	container.Service = service.NewService(
		container.Client,
		container.Repository,
		container.Publisher,
		container.Consumer,
		container.Drafts,
		cfg.Listing.PageSize,
	)

	return container, nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}
