package verification

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "workbuddy-store/pkg/common/errors"
)

func TestGenerate(t *testing.T) {
	shape := regexp.MustCompile(`^[0-9A-F]{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Regexp(t, shape, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("AB12C3", "ab12c3"))
	assert.True(t, Matches("AB12C3", "AB12C3"))
	assert.False(t, Matches("AB12C3", "AB12C4"))
	assert.False(t, Matches("", ""))
}

func TestMemoryStoreCheck(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	assert.ErrorIs(t, s.Check(ctx, "ana@example.com", "AB12C3"), apperrors.ErrCodeExpired)

	require.NoError(t, s.Save(ctx, "Ana@Example.com", "AB12C3", time.Minute))
	assert.ErrorIs(t, s.Check(ctx, "ana@example.com", "000000"), apperrors.ErrCodeMismatch)
	assert.NoError(t, s.Check(ctx, " ana@example.com ", "ab12c3"))

	require.NoError(t, s.Delete(ctx, "ana@example.com"))
	assert.ErrorIs(t, s.Check(ctx, "ana@example.com", "AB12C3"), apperrors.ErrCodeExpired)
}

func TestMemoryStoreAttempts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	require.NoError(t, s.Save(ctx, "a@b.co", "AB12C3", time.Minute))

	assert.ErrorIs(t, s.Check(ctx, "a@b.co", "x"), apperrors.ErrCodeMismatch)
	assert.ErrorIs(t, s.Check(ctx, "a@b.co", "y"), apperrors.ErrCodeMismatch)
	assert.ErrorIs(t, s.Check(ctx, "a@b.co", "AB12C3"), apperrors.ErrTooManyAttempts)
	assert.ErrorIs(t, s.Check(ctx, "a@b.co", "AB12C3"), apperrors.ErrCodeExpired, "code discarded")

	// saving a new code resets the budget
	require.NoError(t, s.Save(ctx, "a@b.co", "FFFFFF", time.Minute))
	assert.NoError(t, s.Check(ctx, "a@b.co", "ffffff"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a@b.co", "AB12C3", 10*time.Minute))
	now = now.Add(10 * time.Minute)
	assert.ErrorIs(t, s.Check(ctx, "a@b.co", "AB12C3"), apperrors.ErrCodeExpired)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestKafkaNotifier(t *testing.T) {
	w := &fakeWriter{}
	n := NewKafkaNotifier(w, 0)
	expires := time.Date(2026, 10, 19, 12, 15, 0, 0, time.UTC)

	err := n.SendVerificationCode(context.Background(), Message{
		Email: "ana@example.com", Name: "Ana", Code: "AB12C3", ExpiresAt: expires,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "ana@example.com", string(w.msgs[0].Key))

	var got Message
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "AB12C3", got.Code)
	assert.True(t, expires.Equal(got.ExpiresAt))

	w.err = errors.New("broker down")
	assert.Error(t, n.SendVerificationCode(context.Background(), Message{Email: "x@y.z"}))
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "user.verification")
	assert.Equal(t, "user.verification", w.Topic)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
}
