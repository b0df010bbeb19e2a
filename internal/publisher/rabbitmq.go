// Package publisher announces knowledge hub changes on a RabbitMQ exchange.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"knowledge_hub/internal/domain"
)

const appID = "knowledge_hub"

// HeaderEntityID carries the id of the changed record on every delivery.
const HeaderEntityID = "entity_id"

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	logger  *slog.Logger
}

type Config struct {
	URL string
	// ExchangeKind is amqp.ExchangeDirect (the default), amqp.ExchangeFanout
	// or amqp.ExchangeTopic.
	ExchangeKind string
	Exchange     string
	RoutingKey   string
	QueueName    string
}

// NewRabbitMQ connects and declares the change exchange and queue. The queue
// is bound so that it receives every change regardless of exchange kind.
func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	if cfg.ExchangeKind == "" {
		cfg.ExchangeKind = amqp.ExchangeDirect
	}
	switch cfg.ExchangeKind {
	case amqp.ExchangeDirect, amqp.ExchangeFanout, amqp.ExchangeTopic:
	default:
		return nil, fmt.Errorf("unsupported exchange kind %q", cfg.ExchangeKind)
	}

	r := &RabbitMQ{
		cfg:    cfg,
		logger: logger.With("component", "publisher", "exchange", cfg.Exchange),
	}
	if err := r.connect(); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Info("change exchange ready",
		"kind", cfg.ExchangeKind,
		"queue", cfg.QueueName,
		"binding", bindingKey(cfg),
	)
	return r, nil
}

func (r *RabbitMQ) connect() error {
	var err error
	if r.conn, err = amqp.DialConfig(r.cfg.URL, amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp.Table{"connection_name": appID + " publisher"},
	}); err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	if r.channel, err = r.conn.Channel(); err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	return declareTopology(r.channel, r.cfg)
}

// declareTopology creates the durable exchange and queue and binds them.
func declareTopology(ch *amqp.Channel, cfg Config) error {
	const durable, autoDelete, internal, exclusive, noWait = true, false, false, false, false

	if err := ch.ExchangeDeclare(cfg.Exchange, cfg.ExchangeKind, durable, autoDelete, internal, noWait, nil); err != nil {
		return fmt.Errorf("declare %s exchange %q: %w", cfg.ExchangeKind, cfg.Exchange, err)
	}
	q, err := ch.QueueDeclare(cfg.QueueName, durable, autoDelete, exclusive, noWait, nil)
	if err != nil {
		return fmt.Errorf("declare queue %q: %w", cfg.QueueName, err)
	}
	if err := ch.QueueBind(q.Name, bindingKey(cfg), cfg.Exchange, noWait, nil); err != nil {
		return fmt.Errorf("bind queue %q: %w", q.Name, err)
	}
	return nil
}

// bindingKey is the key the change queue is bound with. Fanout exchanges
// ignore it; topic exchanges match every "<routing key>.<entity>.<action>".
func bindingKey(cfg Config) string {
	switch cfg.ExchangeKind {
	case amqp.ExchangeFanout:
		return ""
	case amqp.ExchangeTopic:
		return cfg.RoutingKey + ".#"
	default:
		return cfg.RoutingKey
	}
}

// routingKey is the key a single event is published with.
func routingKey(cfg Config, event domain.ChangeEvent) string {
	if cfg.ExchangeKind == amqp.ExchangeTopic {
		return cfg.RoutingKey + "." + messageType(event)
	}
	return cfg.RoutingKey
}

// ChangeMessage is the wire form of a domain.ChangeEvent. Payload is omitted for
// deletes.
type ChangeMessage struct {
	Action    domain.Action `json:"action"`
	Entity    domain.Entity `json:"entity"`
	ID        string        `json:"id"`
	Payload   any           `json:"payload,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func newChangeMessage(event domain.ChangeEvent) ChangeMessage {
	return ChangeMessage{
		Action:    event.Action,
		Entity:    event.Entity,
		ID:        event.ID,
		Payload:   event.Payload,
		Timestamp: event.Timestamp.UTC(),
	}
}

// messageType labels a delivery as "<entity>.<action>" so consumers can filter
// without decoding the body.
func messageType(event domain.ChangeEvent) string {
	return string(event.Entity) + "." + string(event.Action)
}

// newPublishing builds the delivery for one event. Every delivery gets its own
// message id; the record id travels in the body and the entity_id header.
func newPublishing(event domain.ChangeEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(newChangeMessage(event))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}
	return amqp.Publishing{
		Headers:      amqp.Table{HeaderEntityID: event.ID},
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         messageType(event),
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Timestamp:    event.Timestamp,
		Body:         body,
	}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, event domain.ChangeEvent) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	key := routingKey(r.cfg, event)
	if err := r.channel.PublishWithContext(ctx, r.cfg.Exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}

	r.logger.Debug("published change",
		"type", msg.Type,
		"id", event.ID,
		"message_id", msg.MessageId,
		"routing_key", key,
	)
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
