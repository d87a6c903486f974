package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/freedomology/backend/internal/domain/assessment"
)

const sessionKeyPrefix = "assessment:session:"

// RedisSessionStore shares sessions between server replicas. Each save
// refreshes the key's ttl.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessionStore) Save(ctx context.Context, snap assessment.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.ID, err)
	}
	return s.client.Set(ctx, sessionKey(snap.ID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (assessment.Snapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return assessment.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return assessment.Snapshot{}, err
	}

	var snap assessment.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return assessment.Snapshot{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	if snap.Answers == nil {
		snap.Answers = make(assessment.AnswerStore)
	}
	return snap, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
