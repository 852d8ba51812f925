package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (r *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	r.exchange, r.key, r.msg = exchange, key, msg
	return r.err
}

func (r *recordingChannel) Close() error { return nil }

type seqFunc func(ctx context.Context, key string) (int64, error)

func (f seqFunc) NextSequence(ctx context.Context, key string) (int64, error) { return f(ctx, key) }

type ctxKey struct{}

func TestPublisherPublishCheckoutSessionCreated(t *testing.T) {
	ch := &recordingChannel{}
	var partition string
	pub := newPublisher(ch, seqFunc(func(ctx context.Context, key string) (int64, error) {
		partition = key
		return 9, nil
	}), PublisherOptions{
		CorrelationID: func(ctx context.Context) string {
			id, _ := ctx.Value(ctxKey{}).(string)
			return id
		},
	})

	ctx := context.WithValue(context.Background(), ctxKey{}, "corr-1")
	err := pub.PublishCheckoutSessionCreated(ctx, contracts.CheckoutSessionCreatedPayload{
		SessionID: "cs_1",
		UserID:    4,
		Currency:  "eur",
		Subtotal:  money.MustParse("8.90"),
	})
	require.NoError(t, err)

	assert.Equal(t, "user-4", partition)
	assert.Equal(t, EventsExchange, ch.exchange)
	assert.Equal(t, CheckoutSessionCreatedRoutingKey, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var env contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(ch.msg.Body, &env))
	assert.Equal(t, int64(9), env.Sequence)
	assert.Equal(t, "corr-1", env.CorrelationID)
	assert.Equal(t, contracts.StorefrontServiceProducer, env.Producer)
	assert.Equal(t, "cs_1", env.Payload.SessionID)
}

func TestPublisherSequenceFailure(t *testing.T) {
	ch := &recordingChannel{}
	pub := newPublisher(ch, seqFunc(func(ctx context.Context, key string) (int64, error) {
		return 0, errors.New("db down")
	}), PublisherOptions{})

	err := pub.PublishCheckoutSessionCreated(context.Background(), contracts.CheckoutSessionCreatedPayload{SessionID: "cs_1", Guest: true})
	require.Error(t, err)
	assert.Empty(t, ch.key, "nothing published without a sequence")
}
