// Package events publishes domain events to RabbitMQ for downstream consumers
// such as the certificate renderer and notification mailers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

const (
	Exchange = "lms.events"

	CourseCompleted      = "course.completed"
	QuizAttemptSubmitted = "quiz.attempt.submitted"
)

var ErrPublisherClosed = errors.New("event publisher is closed")

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

type CourseCompletedEvent struct {
	UserID            string    `json:"user_id"`
	CourseID          string    `json:"course_id"`
	EnrollmentID      string    `json:"enrollment_id"`
	CertificateNumber string    `json:"certificate_number,omitempty"`
	CompletedAt       time.Time `json:"completed_at"`
}

type QuizAttemptSubmittedEvent struct {
	AttemptID   string    `json:"attempt_id"`
	UserID      string    `json:"user_id"`
	QuizID      string    `json:"quiz_id"`
	CourseID    string    `json:"course_id"`
	Score       string    `json:"score"`
	Passed      bool      `json:"passed"`
	XPAwarded   int       `json:"xp_awarded"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AMQPPublisher publishes JSON messages to the topic exchange. The channel is
// shared, so Publish is serialized.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	return p.channel.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher drops every event. Used when AMQP_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	config.WithContext(ctx).WithField("routing_key", routingKey).Debug("Event dropped, no broker configured")
	return nil
}

func (NoopPublisher) Close() error { return nil }

// Emit logs instead of returning publish failures so a broker outage never
// fails the request that produced the event.
func Emit(ctx context.Context, p Publisher, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		config.WithContext(ctx).
			WithError(err).
			WithField("routing_key", routingKey).
			Error("Failed to publish event")
	}
}
