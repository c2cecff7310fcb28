package commissionRepo

import (
	"context"
	"encoding/json"
	"time"

	"servio/models"
	"servio/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedCommissionRepo serves GetConfig from Redis and drops the cached
// table whenever rates are saved. Cache failures fall through to the store.
type CachedCommissionRepo struct {
	CommissionRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCommissionRepo wraps next with a read-through cache.
func NewCachedCommissionRepo(next CommissionRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCommissionRepo {
	return &CachedCommissionRepo{CommissionRepository: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedCommissionRepo) GetConfig(ctx context.Context) (*models.CommissionConfig, error) {
	raw, err := c.client.Get(ctx, utils.CommissionCacheKey).Bytes()
	if err == nil {
		var cfg models.CommissionConfig
		if jerr := json.Unmarshal(raw, &cfg); jerr == nil {
			return &cfg, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("commission cache read failed", zap.Error(err))
	}

	cfg, err := c.CommissionRepository.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if data, jerr := json.Marshal(cfg); jerr == nil {
		if serr := c.client.Set(ctx, utils.CommissionCacheKey, data, c.ttl).Err(); serr != nil {
			c.logger.Warn("commission cache write failed", zap.Error(serr))
		}
	}
	return cfg, nil
}

func (c *CachedCommissionRepo) SaveRates(ctx context.Context, cfg *models.CommissionConfig, expectedVersion int64, changes []models.CommissionRateChange) error {
	err := c.CommissionRepository.SaveRates(ctx, cfg, expectedVersion, changes)
	// invalidate on failure as well; a conflict means the cached copy is stale
	if derr := c.client.Del(ctx, utils.CommissionCacheKey).Err(); derr != nil {
		c.logger.Warn("commission cache invalidation failed", zap.Error(derr))
	}
	return err
}
