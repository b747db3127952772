// Package events publishes domain events to the message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/logger"
)

// AllocationGeneratedEvent is published after every stored allocation run
type AllocationGeneratedEvent struct {
	AllocationID  string    `json:"allocationId"`
	GeneratedAt   time.Time `json:"generatedAt"`
	ExamDate      string    `json:"examDate"`
	ExamSession   string    `json:"examSession"`
	Rooms         []string  `json:"rooms"`
	SeatedCount   int       `json:"seatedCount"`
	UnseatedCount int       `json:"unseatedCount"`
}

// NewAllocationGeneratedEvent summarizes an allocation. Rooms are listed in
// first-used order.
func NewAllocationGeneratedEvent(a *models.Allocation) AllocationGeneratedEvent {
	meta := a.Meta()
	seen := make(map[string]bool)
	rooms := []string{}
	for _, s := range a.Assignments {
		if !seen[s.RoomNo] {
			seen[s.RoomNo] = true
			rooms = append(rooms, s.RoomNo)
		}
	}
	return AllocationGeneratedEvent{
		AllocationID:  a.ID.String(),
		GeneratedAt:   a.GeneratedAt.UTC(),
		ExamDate:      meta.ExamDate,
		ExamSession:   meta.ExamSession,
		Rooms:         rooms,
		SeatedCount:   len(a.Assignments),
		UnseatedCount: len(a.Unseated),
	}
}

// Publisher delivers events. Failures are returned so the caller can decide
// to ignore them.
type Publisher interface {
	PublishAllocationGenerated(ctx context.Context, event AllocationGeneratedEvent) error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// PublishAllocationGenerated does nothing
func (NoopPublisher) PublishAllocationGenerated(context.Context, AllocationGeneratedEvent) error {
	return nil
}

// AMQPPublisher publishes to a durable RabbitMQ queue. It dials per publish;
// allocation runs are rare enough that a long-lived connection is not worth
// the reconnect handling.
type AMQPPublisher struct {
	url   string
	queue string
}

// NewAMQPPublisher creates a publisher for the given broker URL and queue
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue}
}

// PublishAllocationGenerated sends event as a persistent JSON message
func (p *AMQPPublisher) PublishAllocationGenerated(ctx context.Context, event AllocationGeneratedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.dial(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: dial failed")
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.AllocationID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish to %s: %w", p.queue, err)
	}
	return nil
}

// defaultDialTimeout applies when ctx carries no deadline
const defaultDialTimeout = 5 * time.Second

// dialTimeout bounds the TCP dial by the time left on ctx
func dialTimeout(ctx context.Context) (time.Duration, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}

func (p *AMQPPublisher) dial(ctx context.Context) (*amqp.Connection, error) {
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return nil, err
	}
	return amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}
