// Package cache keeps published articles in Redis for the public endpoints.
// Without a Redis client every lookup misses.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix     = "articles:published:"
	generationKey = "articles:generation"
)

// ArticleCache stores published articles. Failures are logged, never returned:
// a broken cache degrades to a miss.
//
// Entries belong to a generation. Readers take the current generation before
// loading from the database and pass it back when filling the cache;
// Invalidate starts a new generation, so a fill that raced with a mutation
// lands under a generation nobody reads anymore.
type ArticleCache interface {
	// Generation returns the current generation. ok is false when the cache
	// cannot be trusted right now and must be bypassed.
	Generation(ctx context.Context) (gen int64, ok bool)
	GetList(ctx context.Context, gen int64) ([]*models.Article, bool)
	SetList(ctx context.Context, gen int64, articles []*models.Article)
	Get(ctx context.Context, gen, id int64) (*models.Article, bool)
	Set(ctx context.Context, gen int64, article *models.Article)
	Invalidate(ctx context.Context)
}

// NewRedisClient connects to Redis. It returns nil when no address is
// configured or the server does not answer, which disables caching.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Info().Msg("Redis address not configured, article cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unreachable, article cache disabled")
		rdb.Close()
		return nil
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Connected to Redis")
	return rdb
}

// New returns a Redis backed cache, or a no-op cache when client is nil
func New(client *redis.Client, ttl time.Duration, log zerolog.Logger) ArticleCache {
	if client == nil {
		return Nop{}
	}
	return &redisCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "article_cache").Logger(),
	}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger

	// stale is set when an invalidation could not be recorded. The cache is
	// bypassed until a later generation bump succeeds.
	stale atomic.Bool
}

func listKey(gen int64) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":list"
}

func articleKey(gen, id int64) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + strconv.FormatInt(id, 10)
}

func (c *redisCache) get(ctx context.Context, key string, dst any) bool {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt")
		return false
	}
	return true
}

func (c *redisCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (c *redisCache) Generation(ctx context.Context) (int64, bool) {
	if c.stale.Load() && !c.bump(ctx) {
		return 0, false
	}
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *redisCache) GetList(ctx context.Context, gen int64) ([]*models.Article, bool) {
	var articles []*models.Article
	if !c.get(ctx, listKey(gen), &articles) {
		return nil, false
	}
	return articles, true
}

func (c *redisCache) SetList(ctx context.Context, gen int64, articles []*models.Article) {
	for _, a := range articles {
		if a.Status != models.StatusPublished {
			return
		}
	}
	c.set(ctx, listKey(gen), articles)
}

func (c *redisCache) Get(ctx context.Context, gen, id int64) (*models.Article, bool) {
	var article models.Article
	if !c.get(ctx, articleKey(gen, id), &article) {
		return nil, false
	}
	return &article, true
}

func (c *redisCache) Set(ctx context.Context, gen int64, article *models.Article) {
	if article.Status != models.StatusPublished {
		return
	}
	c.set(ctx, articleKey(gen, article.ID), article)
}

// Invalidate starts a new generation. Entries of older generations are never
// read again and expire with their TTL.
func (c *redisCache) Invalidate(ctx context.Context) {
	c.bump(ctx)
}

func (c *redisCache) bump(ctx context.Context) bool {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.stale.Store(true)
		c.log.Warn().Err(err).Msg("Cache invalidation failed, bypassing cache")
		return false
	}
	c.stale.Store(false)
	return true
}

// Nop is the disabled cache
type Nop struct{}

func (Nop) Generation(context.Context) (int64, bool)                  { return 0, false }
func (Nop) GetList(context.Context, int64) ([]*models.Article, bool)  { return nil, false }
func (Nop) SetList(context.Context, int64, []*models.Article)         {}
func (Nop) Get(context.Context, int64, int64) (*models.Article, bool) { return nil, false }
func (Nop) Set(context.Context, int64, *models.Article)               {}
func (Nop) Invalidate(context.Context)                                {}
