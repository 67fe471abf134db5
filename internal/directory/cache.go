package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	companyCacheVersionKey = "directory:companies:version"
	companyCachePrefix     = "directory:companies:"

	// shared loads outlive the caller that started them, bounded by this.
	companyLoadTimeout = 30 * time.Second
)

// CompanySource loads companies from the directory.
type CompanySource interface {
	ListCompanies(ctx context.Context) ([]Company, error)
}

// CompanyCache keeps the company candidate list in Redis under a versioned key.
type CompanyCache struct {
	source CompanySource
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewCompanyCache wires a cache in front of source. A nil client disables caching.
func NewCompanyCache(source CompanySource, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CompanyCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyCache{source: source, client: client, ttl: ttl, logger: logger}
}

// Companies returns the cached company list, loading it on a miss.
func (c *CompanyCache) Companies(ctx context.Context) ([]Company, error) {
	if c.client == nil {
		return c.source.ListCompanies(ctx)
	}
	key, err := c.key(ctx)
	if err != nil {
		c.logger.Warn("company cache version", slog.Any("error", err))
		return c.source.ListCompanies(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var companies []Company
		if err := json.Unmarshal(payload, &companies); err == nil {
			return companies, nil
		}
		c.logger.Warn("company cache decode", slog.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("company cache read", slog.Any("error", err))
		return c.source.ListCompanies(ctx)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), companyLoadTimeout)
		defer cancel()
		return c.fill(loadCtx, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Company), nil
	}
}

// Refresh reloads the company list from the directory into the current version.
func (c *CompanyCache) Refresh(ctx context.Context) ([]Company, error) {
	if c.client == nil {
		return c.source.ListCompanies(ctx)
	}
	key, err := c.key(ctx)
	if err != nil {
		return nil, err
	}
	return c.fill(ctx, key)
}

// Bump invalidates every cached company list.
func (c *CompanyCache) Bump(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, companyCacheVersionKey).Err()
}

func (c *CompanyCache) fill(ctx context.Context, key string) ([]Company, error) {
	companies, err := c.source.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(companies)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("company cache write", slog.Any("error", err))
	}
	return companies, nil
}

func (c *CompanyCache) key(ctx context.Context) (string, error) {
	ver, err := c.client.Get(ctx, companyCacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, companyCacheVersionKey, 1, 0).Err(); err != nil {
			return "", err
		}
		ver = 1
	} else if err != nil {
		return "", err
	}
	return companyCachePrefix + strconv.FormatInt(ver, 10), nil
}
