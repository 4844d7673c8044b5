package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"role-catalog/domain"
)

const (
	EventRoleCreated = "role.created"
	EventRoleUpdated = "role.updated"
	EventRoleDeleted = "role.deleted"
)

// RoleEvent is published after a job role write has committed.
type RoleEvent struct {
	Type       string          `json:"type"`
	RoleID     uint            `json:"roleId"`
	Role       *domain.JobRole `json:"role,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// RabbitMQ publishes and consumes role events on one durable queue.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewRabbitMQ dials url and declares the durable queue.
func NewRabbitMQ(url, queue string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	log.WithField("queue", q.Name).Info("connected to RabbitMQ and declared queue")
	return &RabbitMQ{conn: conn, channel: ch, queue: q}, nil
}

// Publish sends event as a persistent JSON message.
func (r *RabbitMQ) Publish(ctx context.Context, event RoleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

// Consume delivers decoded events to handler until ctx is done or the
// channel closes. Malformed messages are logged and dropped.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(RoleEvent)) error {
	msgs, err := r.channel.ConsumeWithContext(
		ctx,
		r.queue.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			event, err := decodeRoleEvent(d.Body)
			if err != nil {
				log.Warnf("invalid role event: %v", err)
				continue
			}
			handler(event)
		}
	}
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}

func decodeRoleEvent(body []byte) (RoleEvent, error) {
	var event RoleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return RoleEvent{}, err
	}
	if event.Type == "" || event.RoleID == 0 {
		return RoleEvent{}, fmt.Errorf("missing type or roleId")
	}
	return event, nil
}
