package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"nexus-market/pkg/logger"

	"github.com/streadway/amqp"
)

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *logger.Logger
}

// Envelope is the message body: the routing pattern plus its payload.
type Envelope struct {
	Pattern string `json:"pattern"`
	Data    any    `json:"data"`
}

func NewPublisher(amqpURL, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      log,
	}, nil
}

func EncodeEnvelope(pattern string, data any) ([]byte, error) {
	body, err := json.Marshal(Envelope{Pattern: pattern, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return body, nil
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	body, err := EncodeEnvelope(pattern, data)
	if err != nil {
		return err
	}

	p.log.Infof(ctx, "publishing message", "pattern", pattern)

	err = p.channel.Publish(
		p.exchange,
		pattern,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
