package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

const (
	keyPrefix = "card:public:"
	genPrefix = "card:gen:"

	// generation keys outlive any cached entry they guard
	genTTL = 24 * time.Hour
)

// setIfGeneration writes the entry only while the generation still equals
// the one read before the database lookup.
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// CardCache keeps rendered public cards in Redis. Redis errors degrade to
// cache misses; the database stays the source of truth.
type CardCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logrus.FieldLogger
}

// cachedCard keeps the owner id, which the public JSON form omits.
type cachedCard struct {
	Card    *entity.PublicCard `json:"card"`
	OwnerID string             `json:"owner_id"`
}

func NewCardCache(rdb redis.Cmdable, ttl time.Duration, logger logrus.FieldLogger) *CardCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CardCache{rdb: rdb, ttl: ttl, logger: logger}
}

func key(publicID string) string    { return keyPrefix + publicID }
func genKey(publicID string) string { return genPrefix + publicID }

func (c *CardCache) Get(ctx context.Context, publicID string) (*entity.PublicCard, bool) {
	var v cachedCard
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, key(publicID), &v)
	if err != nil {
		c.warn(err, publicID, "card cache read failed")
		return nil, false
	}
	if !ok || v.Card == nil {
		return nil, false
	}
	v.Card.OwnerID = v.OwnerID
	return v.Card, true
}

// Generation returns the invalidation counter of publicID, or -1 when it
// cannot be read. Pass it to Set after loading the card.
func (c *CardCache) Generation(ctx context.Context, publicID string) int64 {
	n, err := c.rdb.Get(ctx, genKey(publicID)).Int64()
	switch {
	case err == nil:
		return n
	case errors.Is(err, redis.Nil):
		return 0
	default:
		c.warn(err, publicID, "card cache generation read failed")
		return -1
	}
}

// Set stores card unless it was invalidated after gen was read, so a view
// loaded before a concurrent write is never cached.
func (c *CardCache) Set(ctx context.Context, card *entity.PublicCard, gen int64) {
	if card == nil || gen < 0 {
		return
	}
	b, err := json.Marshal(cachedCard{Card: card, OwnerID: card.OwnerID})
	if err != nil {
		c.warn(err, card.PublicID, "card cache encode failed")
		return
	}
	keys := []string{key(card.PublicID), genKey(card.PublicID)}
	if err := setIfGeneration.Run(ctx, c.rdb, keys, strconv.FormatInt(gen, 10), b, c.ttl.Milliseconds()).Err(); err != nil {
		c.warn(err, card.PublicID, "card cache write failed")
	}
}

// Invalidate drops the entry and bumps the generation.
func (c *CardCache) Invalidate(ctx context.Context, publicID string) {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey(publicID))
		p.PExpire(ctx, genKey(publicID), genTTL)
		p.Del(ctx, key(publicID))
		return nil
	})
	if err != nil {
		c.warn(err, publicID, "card cache invalidate failed")
	}
}

func (c *CardCache) warn(err error, publicID, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("public_id", publicID).Warn(msg)
	}
}
