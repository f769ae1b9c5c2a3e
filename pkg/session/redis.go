package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisOpTimeout = 5 * time.Second

// RedisStore keeps sessions in Redis so multiple relay processes can share
// them. Sessions are stored as JSON under keyPrefix+connectionID with no
// TTL; lifecycle stays explicit (deleted on disconnect or mode switch), the
// same as MemoryStore.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client:    client,
		keyPrefix: "genie:session:",
	}, nil
}

func (r *RedisStore) key(connectionID string) string {
	return r.keyPrefix + connectionID
}

// Get returns the session for a connection, if one exists.
func (r *RedisStore) Get(connectionID string) (*Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.key(connectionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Str("connectionId", connectionID).Msg("Failed to read session from redis")
		}
		return nil, false
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		log.Error().Err(err).Str("connectionId", connectionID).Msg("Failed to decode stored session")
		return nil, false
	}
	return &s, true
}

// Put stores the session for a connection.
func (r *RedisStore) Put(connectionID string, s *Session) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Str("connectionId", connectionID).Msg("Failed to encode session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(connectionID), data, 0).Err(); err != nil {
		log.Error().Err(err).Str("connectionId", connectionID).Msg("Failed to write session to redis")
	}
}

// Delete removes the session for a connection.
func (r *RedisStore) Delete(connectionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.key(connectionID)).Err(); err != nil {
		log.Error().Err(err).Str("connectionId", connectionID).Msg("Failed to delete session from redis")
	}
}

// Count returns the number of stored sessions.
func (r *RedisStore) Count() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var cursor uint64
	total := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.keyPrefix+"*", 100).Result()
		if err != nil {
			log.Error().Err(err).Msg("Failed to count sessions in redis")
			return total
		}
		total += len(keys)
		if next == 0 {
			return total
		}
		cursor = next
	}
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
