package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"signup-api/internal/config"
	"signup-api/internal/database"

	"github.com/redis/go-redis/v9"
)

// maxEventsPerSession bounds the analytics event list per session
const maxEventsPerSession = 200

// AnalyticsEvent is a single funnel event recorded for a session
type AnalyticsEvent struct {
	Event           string                 `json:"event"`
	Timestamp       string                 `json:"timestamp"`
	Data            map[string]interface{} `json:"data,omitempty"`
	AffiliateParams map[string]string      `json:"affiliate_params,omitempty"`
}

// SessionStore persists per-session funnel state between requests: captured
// affiliate params, the wizard snapshot, and analytics events.
type SessionStore interface {
	AffiliateParams(ctx context.Context, sessionID string) (map[string]string, error)
	MergeAffiliateParams(ctx context.Context, sessionID string, params map[string]string) error
	SaveSnapshot(ctx context.Context, sessionID string, snapshot []byte) error
	Snapshot(ctx context.Context, sessionID string) ([]byte, error)
	AppendEvent(ctx context.Context, sessionID string, event AnalyticsEvent) error
	Events(ctx context.Context, sessionID string) ([]AnalyticsEvent, error)
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionStore is the Redis-backed SessionStore
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a session store on the shared Redis client
func NewSessionStore() *RedisSessionStore {
	return &RedisSessionStore{
		client: database.GetRedis(),
		ttl:    time.Duration(config.AppConfig.SessionExpireHours) * time.Hour,
	}
}

func affiliateKey(sessionID string) string {
	return fmt.Sprintf("affiliate_params:%s", sessionID)
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("wizard_state:%s", sessionID)
}

func eventsKey(sessionID string) string {
	return fmt.Sprintf("analytics_events:%s", sessionID)
}

// AffiliateParams returns the session's captured affiliate params. A missing
// key is not an error; it returns an empty map.
func (s *RedisSessionStore) AffiliateParams(ctx context.Context, sessionID string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, affiliateKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	return values, nil
}

// MergeAffiliateParams merges params into the session's stored affiliate map.
// New values overwrite old ones on key collision.
func (s *RedisSessionStore) MergeAffiliateParams(ctx context.Context, sessionID string, params map[string]string) error {
	if len(params) == 0 {
		return nil
	}
	key := affiliateKey(sessionID)
	data := make(map[string]interface{}, len(params))
	for k, v := range params {
		data[k] = v
	}
	if err := s.client.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

// SaveSnapshot stores the wizard snapshot JSON for the session
func (s *RedisSessionStore) SaveSnapshot(ctx context.Context, sessionID string, snapshot []byte) error {
	return s.client.Set(ctx, snapshotKey(sessionID), snapshot, s.ttl).Err()
}

// Snapshot returns the stored wizard snapshot, or nil when none exists
func (s *RedisSessionStore) Snapshot(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// AppendEvent appends an analytics event to the session's bounded event list
func (s *RedisSessionStore) AppendEvent(ctx context.Context, sessionID string, event AnalyticsEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	key := eventsKey(sessionID)
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	if err := s.client.LTrim(ctx, key, -maxEventsPerSession, -1).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

// Events returns the session's analytics events in arrival order
func (s *RedisSessionStore) Events(ctx context.Context, sessionID string) ([]AnalyticsEvent, error) {
	raw, err := s.client.LRange(ctx, eventsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]AnalyticsEvent, 0, len(raw))
	for _, item := range raw {
		var event AnalyticsEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			// Skip unparseable entries rather than failing the whole read
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Clear removes all session state
func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, affiliateKey(sessionID), snapshotKey(sessionID), eventsKey(sessionID)).Err()
}
