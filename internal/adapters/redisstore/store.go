package redisstore

// Package redisstore provides the Redis-backed primary session store. TTLs
// follow each session's expiry so Redis drops expired sessions on its own.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// StaffStore is the durable primary store for staff sessions.
type StaffStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStaffStore creates a Redis staff session store with the given key prefix.
func NewStaffStore(client redis.UniversalClient, prefix string) *StaffStore {
	if prefix == "" {
		prefix = "staff_session:"
	}
	return &StaffStore{client: client, prefix: prefix}
}

// Write persists the session keyed by its ID with TTL equal to its remaining
// lifetime.
func (s *StaffStore) Write(ctx context.Context, sess domainauth.StaffSession) error {
	if sess.ID == "" {
		return apperrors.Validation("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return apperrors.Validation("session is already expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

// Read returns the session for the given ID.
func (s *StaffStore) Read(ctx context.Context, id string) (domainauth.StaffSession, error) {
	if id == "" {
		return domainauth.StaffSession{}, apperrors.NotFound("session not found")
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.StaffSession{}, apperrors.NotFound("session not found")
		}
		return domainauth.StaffSession{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.StaffSession
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.StaffSession{}, apperrors.Wrap(unmarshalErr,
			apperrors.ErrCodeMalformedSession, "unmarshal session")
	}
	return sess, nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *StaffStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}
