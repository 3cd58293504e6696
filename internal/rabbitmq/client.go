package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"datespark/internal/lib/logger/sl"
)

const publishTimeout = 5 * time.Second

// Client publishes photo moderation events to a durable queue so
// downstream consumers (mail, analytics) can react to moderation
// decisions without coupling to this service.
type Client struct {
	log     *slog.Logger
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewClient(url, queueName string, log *slog.Logger) (*Client, error) {
	const op = "rabbitmq.NewClient"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("connected to rabbitmq", slog.String("queue", q.Name))

	return &Client{log: log, conn: conn, channel: ch, queue: q}, nil
}

// Publish serializes body as JSON and sends it to the queue.
func (c *Client) Publish(ctx context.Context, body interface{}) error {
	const op = "rabbitmq.Publish"

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // default exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         data,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.log.Error("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.log.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
}
