package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/contracts"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch            channel
	seqRepo       SequenceRepository
	producer      string
	correlationID func(context.Context) string
}

type PublisherOptions struct {
	Producer string
	// CorrelationID extracts the request correlation id from ctx, if any.
	CorrelationID func(context.Context) string
}

func NewPublisher(conn *amqp.Connection, seqRepo SequenceRepository, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seqRepo, opts), nil
}

func newPublisher(ch channel, seqRepo SequenceRepository, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = contracts.StorefrontServiceProducer
	}
	return &Publisher{
		ch:            ch,
		seqRepo:       seqRepo,
		producer:      producer,
		correlationID: opts.CorrelationID,
	}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishCheckoutSessionCreated(ctx context.Context, payload contracts.CheckoutSessionCreatedPayload) error {
	partitionKey := payload.PartitionKey()
	seq, err := p.seqRepo.NextSequence(ctx, partitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	opts := contracts.EnvelopeOptions{
		PartitionKey: partitionKey,
		Sequence:     seq,
		Producer:     p.producer,
	}
	if p.correlationID != nil {
		opts.CorrelationID = p.correlationID(ctx)
	}

	body, err := json.Marshal(contracts.BuildCheckoutSessionCreatedEvent(payload, opts))
	if err != nil {
		return fmt.Errorf("marshal CheckoutSessionCreated envelope: %w", err)
	}

	return p.publishJSON(ctx, CheckoutSessionCreatedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
