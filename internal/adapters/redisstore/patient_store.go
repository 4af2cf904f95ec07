package redisstore

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

// PatientStore persists server-side patient sessions. Patient sessions have a
// single store; redundancy is a staff-session concern.
type PatientStore struct {
	client redis.UniversalClient
	prefix string
}

// NewPatientStore creates a Redis patient session store.
func NewPatientStore(client redis.UniversalClient) *PatientStore {
	return &PatientStore{client: client, prefix: "patient_session:"}
}

func (s *PatientStore) Save(ctx context.Context, sess domainauth.PatientSession) error {
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

func (s *PatientStore) Get(ctx context.Context, id string) (domainauth.PatientSession, error) {
	if id == "" {
		return domainauth.PatientSession{}, apperrors.NotFound("session not found")
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.PatientSession{}, apperrors.NotFound("session not found")
		}
		return domainauth.PatientSession{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.PatientSession
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.PatientSession{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL normally drops expired sessions; a lagging key can linger.
	if sess.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.PatientSession{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.PatientSession{}, apperrors.NotFound("session not found")
	}

	return sess, nil
}

func (s *PatientStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}
