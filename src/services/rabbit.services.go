package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	movies "filmbase/src/modules/movies/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

const MovieEventsExchange = "movies.events"

// RabbitPublisher forwards movie events to a durable fanout exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string

	mu sync.Mutex
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		MovieEventsExchange,
		amqp.ExchangeFanout,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare the exchange '%v': %w", MovieEventsExchange, err)
	}

	log.Infof("action: rabbit_connect | result: success | exchange: %s", MovieEventsExchange)
	return &RabbitPublisher{conn: conn, channel: ch, exchange: MovieEventsExchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event movies.MovieEvent) error {
	publishing, err := eventPublishing(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish to exchange '%v' with routing key '%v': %w", p.exchange, event.Type, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() {
	log.Infof("Closing exchange '%s'", p.exchange)
	_ = p.channel.Close()
	_ = p.conn.Close()
}

func eventPublishing(event movies.MovieEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         event.Type,
		MessageId:    event.Movie.ID,
		Body:         body,
		Timestamp:    event.Timestamp,
	}, nil
}
