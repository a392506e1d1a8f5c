package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/policy-advisor/internal/core/error"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(conversationID string) string {
	return fmt.Sprintf("session:%s:state", conversationID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, conversationID string) (model.DialogueState, bool, error) {
	key := r.sessionKey(conversationID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.NewDialogueState(), false, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to load session from redis")
		return model.DialogueState{}, false, errx.WrapRedis(err)
	}

	state := model.NewDialogueState()
	if err := json.Unmarshal(raw, &state); err != nil {
		logx.Error().Err(err).Str("conversationID", conversationID).Msg("failed to unmarshal session")
		return model.DialogueState{}, false, fmt.Errorf("unmarshal session %s: %w", conversationID, err)
	}
	if state.CollectedData == nil {
		state.CollectedData = map[string]string{}
	}
	return state, true, nil
}

// Save overwrites the stored state and refreshes the TTL.
func (r *RedisSessionRepository) Save(ctx context.Context, conversationID string, state model.DialogueState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("conversationID", conversationID).Msg("failed to marshal session")
		return fmt.Errorf("marshal session: %w", err)
	}
	key := r.sessionKey(conversationID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, conversationID string) error {
	key := r.sessionKey(conversationID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
