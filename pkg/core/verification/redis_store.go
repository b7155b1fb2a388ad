package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"

	apperrors "workbuddy-store/pkg/common/errors"
)

const (
	codeKeyPrefix     = "verify:code:"
	attemptsKeyPrefix = "verify:attempts:"
)

// RedisStore keeps codes in Redis so every web instance sees them.
// The attempts counter expires together with its code.
type RedisStore struct {
	client      redis.Cmdable
	maxAttempts int
}

// NewRedisStore wraps client. maxAttempts <= 0 uses DefaultMaxAttempts.
func NewRedisStore(client redis.Cmdable, maxAttempts int) *RedisStore {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &RedisStore{client: client, maxAttempts: maxAttempts}
}

func codeKey(email string) string     { return codeKeyPrefix + normalizeEmail(email) }
func attemptsKey(email string) string { return attemptsKeyPrefix + normalizeEmail(email) }

func (s *RedisStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKey(email), code, ttl)
		pipe.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

func (s *RedisStore) Check(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("load verification code: %w", err)
	}

	attempts, err := s.client.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		return fmt.Errorf("count verification attempt: %w", err)
	}
	if attempts == 1 {
		if ttl, err := s.client.TTL(ctx, codeKey(email)).Result(); err == nil && ttl > 0 {
			if err := s.client.Expire(ctx, attemptsKey(email), ttl).Err(); err != nil {
				hlog.CtxWarnf(ctx, "verification attempts ttl not set email=%s err=%v", email, err)
			}
		}
	}
	if attempts > int64(s.maxAttempts) {
		if err := s.Delete(ctx, email); err != nil {
			return err
		}
		return apperrors.ErrTooManyAttempts
	}

	if !Matches(stored, code) {
		return apperrors.ErrCodeMismatch
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, codeKey(email), attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}
