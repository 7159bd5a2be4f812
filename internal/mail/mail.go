package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	Topic       = "email_jobs"
	sendTimeout = 5 * time.Second
)

const (
	TypeVerify        = "verify_email"
	TypePasswordReset = "password_reset"
)

// Job is what the mailer workers consume. Delivery is someone else's
// problem, the API only enqueues.
type Job struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Link string `json:"link"`
}

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(address string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(address),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: w}
}

func (p *Producer) Send(ctx context.Context, job Job) error {
	if p.Writer == nil {
		return nil
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mail: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(job.To),
		Value: data,
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("mail: publish failed: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
