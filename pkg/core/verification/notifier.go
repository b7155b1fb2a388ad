package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/segmentio/kafka-go"
)

// Message asks the mail pipeline to deliver a verification code.
type Message struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier delivers verification codes to users.
type Notifier interface {
	SendVerificationCode(ctx context.Context, msg Message) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier publishes Message as JSON, keyed by e-mail, for the mail
// service to consume.
type KafkaNotifier struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaWriter builds the producer used by KafkaNotifier.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaNotifier wraps w. Each publish is bounded by timeout.
func NewKafkaNotifier(w messageWriter, timeout time.Duration) *KafkaNotifier {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &KafkaNotifier{writer: w, timeout: timeout}
}

func (n *KafkaNotifier) SendVerificationCode(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode verification message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Email),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish verification message: %w", err)
	}
	hlog.CtxInfof(ctx, "verification message published email=%s", msg.Email)
	return nil
}

// LogNotifier writes codes to the log. Development only.
type LogNotifier struct{}

func (LogNotifier) SendVerificationCode(ctx context.Context, msg Message) error {
	hlog.CtxInfof(ctx, "[DEV] verification code for %s: %s (expires %s)",
		msg.Email, msg.Code, msg.ExpiresAt.Format(time.RFC3339))
	return nil
}
