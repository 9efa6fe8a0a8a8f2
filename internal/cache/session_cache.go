package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"caseintake/internal/model"
)

// SessionCache handles Redis operations for live interview state
type SessionCache interface {
	// Interview aggregate
	SetState(ctx context.Context, sessionID string, state *model.InterviewState) error
	GetState(ctx context.Context, sessionID string) (*model.InterviewState, error)
	DeleteState(ctx context.Context, sessionID string) error

	// Non-reentrancy: one evaluation in flight per session. AcquireEvalLock
	// returns false when a prior evaluation has not resolved yet.
	AcquireEvalLock(ctx context.Context, sessionID string) (bool, error)
	ReleaseEvalLock(ctx context.Context, sessionID string) error
}

type sessionCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client:  client,
		ttl:     24 * time.Hour,
		lockTTL: 30 * time.Second,
	}
}

func (c *sessionCache) stateKey(sessionID string) string {
	return fmt.Sprintf("interview:%s:state", sessionID)
}

func (c *sessionCache) lockKey(sessionID string) string {
	return fmt.Sprintf("interview:%s:evallock", sessionID)
}

func (c *sessionCache) SetState(ctx context.Context, sessionID string, state *model.InterviewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.stateKey(sessionID), data, c.ttl).Err()
}

func (c *sessionCache) GetState(ctx context.Context, sessionID string) (*model.InterviewState, error) {
	data, err := c.client.Get(ctx, c.stateKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.InterviewState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *sessionCache) DeleteState(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.stateKey(sessionID)).Err()
}

func (c *sessionCache) AcquireEvalLock(ctx context.Context, sessionID string) (bool, error) {
	// Lock expires on its own so a crashed evaluation never wedges the session
	return c.client.SetNX(ctx, c.lockKey(sessionID), "1", c.lockTTL).Result()
}

func (c *sessionCache) ReleaseEvalLock(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.lockKey(sessionID)).Err()
}
