package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/config"
	"github.com/jafarshop/productconsole/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "productconsole:search:"

// NewClient connects to redis and verifies the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type searchStateStore struct {
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSearchStateStore stores search state as JSON strings. ttl 0 keeps keys forever.
func NewSearchStateStore(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *searchStateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &searchStateStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(zap.String("module", "redis")),
	}
}

func (s *searchStateStore) Load(ctx context.Context, key string) (*domain.SearchState, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load search state", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var state domain.SearchState
	if err := json.Unmarshal(raw, &state); err != nil {
		// unreadable entries are treated as absent
		s.logger.Warn("Discarding malformed search state", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return &state, nil
}

func (s *searchStateStore) Save(ctx context.Context, key string, state *domain.SearchState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode search state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save search state", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
