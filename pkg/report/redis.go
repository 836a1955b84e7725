package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kstrandberg/uncouple/pkg/errors"
)

const (
	redisRunPrefix = "uncouple:run:"
	redisRunIndex  = "uncouple:runs"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL bounds how long runs are retained. Zero means no expiry.
	TTL time.Duration
}

// RedisStore stores runs in Redis, indexed by start time for listing.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

func (s *RedisStore) Save(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New(errors.ErrCodeInvalidElement, "run without id")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal run %s", run.ID)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisRunPrefix+run.ID, data, s.ttl)
	pipe.ZAdd(ctx, redisRunIndex, redis.Z{
		Score:  float64(run.StartedAt.UnixNano()),
		Member: run.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save run %s", run.ID)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Run, error) {
	data, err := s.client.Get(ctx, redisRunPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get run %s", id)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode run %s", id)
	}
	return &run, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Run, error) {
	ids, err := s.client.ZRevRange(ctx, redisRunIndex, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	out := make([]*Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.Get(ctx, id)
		if errors.Is(err, errors.ErrCodeRunNotFound) {
			// Run expired but its index entry has not been pruned yet.
			s.client.ZRem(ctx, redisRunIndex, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
