package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
)

// Store persists suspended activities across save/load
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id uuid.UUID) (Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, owner string) ([]Record, error)
}

// RedisStore keeps one JSON document per activity plus a set of ids per owner
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on an existing client. ttl <= 0 uses DefaultRecordTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func activityKey(id uuid.UUID) string { return KeyPrefixActivity + id.String() }
func ownerKey(owner string) string    { return KeyPrefixOwner + owner }

// Save writes rec and indexes it under its owner
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if rec.Activity.ID == uuid.Nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilActivityID)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, activityKey(rec.Activity.ID), data, s.ttl)
		pipe.SAdd(ctx, ownerKey(rec.Activity.Owner), rec.Activity.ID.String())
		pipe.Expire(ctx, ownerKey(rec.Activity.Owner), s.ttl)
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgActivitySaveError, "activity_id", rec.Activity.ID, "error", err)
		return fmt.Errorf("failed to save activity: %w", err)
	}
	logger.FromContext(ctx).Debug(LogMsgActivitySaved, "activity_id", rec.Activity.ID, "owner", rec.Activity.Owner)
	return nil
}

// Load returns the record for id, or domain.ErrActivityNotFound
func (s *RedisStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	data, err := s.client.Get(ctx, activityKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%w: %s", domain.ErrActivityNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load activity: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal activity: %w", err)
	}
	return rec, nil
}

// Delete removes the record for id. Deleting a missing record is not an error.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.Load(ctx, id)
	if errors.Is(err, domain.ErrActivityNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, activityKey(id))
		pipe.SRem(ctx, ownerKey(rec.Activity.Owner), id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's records ordered by id. Ids whose record has
// expired are dropped from the owner set on the way.
func (s *RedisStore) ListByOwner(ctx context.Context, owner string) ([]Record, error) {
	ids, err := s.client.SMembers(ctx, ownerKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	sort.Strings(ids)

	out := make([]Record, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		rec, err := s.Load(ctx, id)
		if errors.Is(err, domain.ErrActivityNotFound) {
			s.client.SRem(ctx, ownerKey(owner), raw)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
