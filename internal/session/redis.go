package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "bizhub:session:"
	redisUpdateRetries = 5
)

// RedisStore keeps each session as one JSON value whose TTL matches the
// session expiry. Updates use WATCH/MULTI and retry on contention.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(addr string, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{client: client}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Create(ctx context.Context, state State) error {
	ttl := sessionTTL(state)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", state.ID)
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	created, err := r.client.SetNX(ctx, redisKey(state.ID), payload, ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("session %s: %w", state.ID, ErrConflict)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (State, error) {
	val, err := r.client.Get(ctx, redisKey(id)).Bytes()
	return decodeRedisState(val, err)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (State, error) {
	key := redisKey(id)
	var next State

	txf := func(tx *redis.Tx) error {
		current, err := decodeRedisState(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		next.ID = current.ID
		next.ExpiresAt = current.ExpiresAt

		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return State{}, err
		}
	}
	return State{}, fmt.Errorf("session %s: %w", id, ErrConflict)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKey(id)).Err()
}

// sessionTTL is the lifetime stamped on the state by its creator, so the key
// expiry does not depend on this process's wall clock.
func sessionTTL(state State) time.Duration {
	if state.CreatedAt.IsZero() {
		return time.Until(state.ExpiresAt)
	}
	return state.ExpiresAt.Sub(state.CreatedAt)
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func decodeRedisState(val []byte, err error) (State, error) {
	if err == redis.Nil {
		return State{}, ErrSessionNotFound
	}
	if err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(val, &state); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}
