package contracts

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

const (
	CheckoutSessionCreatedEventName    = "CheckoutSessionCreated"
	CheckoutSessionCreatedEventVersion = 1
	CheckoutSessionCreatedSchemaPath   = "contracts/events/checkout/CheckoutSessionCreated.v1.enveloped.schema.json"
	StorefrontServiceProducer          = "storefront-service"
)

type EventEnvelope struct {
	EventName     string                        `json:"eventName"`
	EventVersion  int                           `json:"eventVersion"`
	EventID       string                        `json:"eventId"`
	CorrelationID string                        `json:"correlationId,omitempty"`
	CausationID   string                        `json:"causationId,omitempty"`
	Producer      string                        `json:"producer"`
	PartitionKey  string                        `json:"partitionKey"`
	Sequence      int64                         `json:"sequence"`
	OccurredAt    time.Time                     `json:"occurredAt"`
	Schema        string                        `json:"schema"`
	Payload       CheckoutSessionCreatedPayload `json:"payload"`
}

// CheckoutSessionCreatedPayload describes a payment session handed to the
// gateway. UserID is zero for guest checkouts.
type CheckoutSessionCreatedPayload struct {
	SessionID string         `json:"sessionId"`
	UserID    int64          `json:"userId,omitempty"`
	Guest     bool           `json:"guest"`
	Currency  string         `json:"currency"`
	Items     []CheckoutItem `json:"items"`
	Subtotal  money.Amount   `json:"subtotal"`
	Timestamp time.Time      `json:"timestamp"`
}

type CheckoutItem struct {
	ProductID int64        `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice money.Amount `json:"unitPrice"`
}

// PartitionKey orders events per user; guest sessions each get their own partition.
func (p CheckoutSessionCreatedPayload) PartitionKey() string {
	if p.Guest || p.UserID == 0 {
		return "guest-" + p.SessionID
	}
	return "user-" + strconv.FormatInt(p.UserID, 10)
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

func BuildCheckoutSessionCreatedEvent(p CheckoutSessionCreatedPayload, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = CheckoutSessionCreatedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontServiceProducer
	}

	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = p.PartitionKey()
	}

	if p.Timestamp.IsZero() {
		p.Timestamp = occurredAt
	}
	if p.Items == nil {
		p.Items = []CheckoutItem{}
	}

	return EventEnvelope{
		EventName:     CheckoutSessionCreatedEventName,
		EventVersion:  CheckoutSessionCreatedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload:       p,
	}
}
