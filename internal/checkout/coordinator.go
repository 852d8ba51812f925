// Package checkout turns a priced cart into a hosted payment session.
package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

const (
	DefaultStaticPrefix = "/api/static/"
	DefaultCurrency     = "eur"

	// SessionIDPlaceholder is substituted by the gateway on redirect.
	SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

type Config struct {
	FrontendURL   string
	PublicBaseURL string
	StaticPrefix  string
	Currency      string
}

func (c Config) withDefaults() Config {
	if c.StaticPrefix == "" {
		c.StaticPrefix = DefaultStaticPrefix
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	return c
}

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int
	ImageURL   string
	ProductID  int64
	CartItemID int64
}

type SessionRequest struct {
	Lines      []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Gateway creates one-time payment sessions. Errors returned by
// CreatePaymentSession are reported as GatewayRequestError.
type Gateway interface {
	Configured() bool
	CreatePaymentSession(ctx context.Context, req SessionRequest) (Session, error)
}

type Pricer interface {
	Price(ctx context.Context, userID int64) (pricing.Quote, error)
	PriceRequested(ctx context.Context, req []pricing.Requested) (pricing.Quote, error)
}

type EventPublisher interface {
	PublishCheckoutSessionCreated(ctx context.Context, payload contracts.CheckoutSessionCreatedPayload) error
}

// Overrides replace the default redirect targets when non-empty.
type Overrides struct {
	SuccessURL string
	CancelURL  string
}

type Coordinator struct {
	cfg       Config
	pricer    Pricer
	gateway   Gateway
	publisher EventPublisher
	logger    *log.Logger
	now       func() time.Time
}

// NewCoordinator wires a coordinator. publisher may be nil when events are disabled.
func NewCoordinator(cfg Config, pricer Pricer, gateway Gateway, publisher EventPublisher, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		cfg:       cfg.withDefaults(),
		pricer:    pricer,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// StartCheckout opens a payment session for the user's stored cart.
func (c *Coordinator) StartCheckout(ctx context.Context, userID int64, o Overrides) (Session, error) {
	if !c.gateway.Configured() {
		return Session{}, ErrGatewayUnconfigured
	}
	quote, err := c.pricer.Price(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return c.submit(ctx, quote, userID, o)
}

// StartGuestCheckout opens a payment session for an unauthenticated item list.
// Prices come from the catalog, never from the caller.
func (c *Coordinator) StartGuestCheckout(ctx context.Context, items []pricing.Requested, o Overrides) (Session, error) {
	if !c.gateway.Configured() {
		return Session{}, ErrGatewayUnconfigured
	}
	quote, err := c.pricer.PriceRequested(ctx, items)
	if err != nil {
		return Session{}, err
	}
	return c.submit(ctx, quote, 0, o)
}

func (c *Coordinator) submit(ctx context.Context, quote pricing.Quote, userID int64, o Overrides) (Session, error) {
	if quote.Empty() {
		return Session{}, ErrEmptyCart
	}

	req := SessionRequest{
		Lines:      make([]LineItem, 0, len(quote.Lines)),
		Currency:   c.cfg.Currency,
		SuccessURL: o.SuccessURL,
		CancelURL:  o.CancelURL,
	}
	if req.SuccessURL == "" {
		req.SuccessURL = c.cfg.FrontendURL + "/success?session_id=" + SessionIDPlaceholder
	}
	if req.CancelURL == "" {
		req.CancelURL = c.cfg.FrontendURL + "/cart"
	}
	for _, l := range quote.Lines {
		req.Lines = append(req.Lines, LineItem{
			Name:       l.Product.Name,
			UnitAmount: l.UnitPrice.MinorUnits(),
			Quantity:   l.Quantity,
			ImageURL:   c.imageURL(l.Product.Image),
			ProductID:  l.ProductID,
			CartItemID: l.CartItemID,
		})
	}

	sess, err := c.gateway.CreatePaymentSession(ctx, req)
	if err != nil {
		var gwErr *GatewayRequestError
		if errors.As(err, &gwErr) {
			return Session{}, gwErr
		}
		return Session{}, &GatewayRequestError{Message: err.Error(), Err: err}
	}

	c.publish(ctx, sess, quote, userID)
	return sess, nil
}

// imageURL makes an absolute URL for images served from our own static
// namespace. Anything else is left off the line item.
func (c *Coordinator) imageURL(ref string) string {
	if ref == "" || c.cfg.PublicBaseURL == "" || !strings.HasPrefix(ref, c.cfg.StaticPrefix) {
		return ""
	}
	return c.cfg.PublicBaseURL + ref
}

func (c *Coordinator) publish(ctx context.Context, sess Session, quote pricing.Quote, userID int64) {
	if c.publisher == nil {
		return
	}

	payload := contracts.CheckoutSessionCreatedPayload{
		SessionID: sess.ID,
		UserID:    userID,
		Guest:     userID == 0,
		Currency:  c.cfg.Currency,
		Items:     make([]contracts.CheckoutItem, 0, len(quote.Lines)),
		Subtotal:  quote.Subtotal,
		Timestamp: c.now().UTC(),
	}
	for _, l := range quote.Lines {
		payload.Items = append(payload.Items, contracts.CheckoutItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := c.publisher.PublishCheckoutSessionCreated(ctx, payload); err != nil {
		c.logger.Printf("publish CheckoutSessionCreated for session %s: %v", sess.ID, err)
	}
}
