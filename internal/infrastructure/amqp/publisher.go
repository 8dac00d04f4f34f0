// Package amqp publica los eventos de trazabilidad en RabbitMQ (exchange topic).
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/lims-api/internal/application/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Routing keys de los eventos publicados.
const (
	RoutingStateChanged  = "state.changed"
	RoutingMediaPrepared = "media.prepared"
)

var errClosed = errors.New("amqp: publisher cerrado")

// Publisher mantiene una conexión y un canal; si el canal se cae se reabre en el siguiente publish.
type Publisher struct {
	url      string
	exchange string
	log      zerolog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewPublisher conecta y declara el exchange (durable, tipo topic).
func NewPublisher(url, exchange string, log zerolog.Logger) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange, log: log}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("amqp exchange declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) PublishStateChanged(ctx context.Context, ev ports.StateChangedEvent) error {
	return p.publish(ctx, RoutingStateChanged+"."+ev.Kind, ev)
}

func (p *Publisher) PublishMediaPrepared(ctx context.Context, ev ports.MediaPreparedEvent) error {
	return p.publish(ctx, RoutingMediaPrepared, ev)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, ev any) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("amqp marshal: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errClosed
	}
	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		p.release()
		if err := p.connect(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("amqp publish %s: %w", routingKey, err)
	}
	p.log.Debug().Str("routing_key", routingKey).Msg("evento publicado")
	return nil
}

func (p *Publisher) release() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.release()
	return nil
}
