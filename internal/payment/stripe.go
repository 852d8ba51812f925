// Package payment implements checkout.Gateway on top of Stripe Checkout.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
)

type StripeGateway struct {
	secretKey string
	sessions  session.Client
}

// NewStripeGateway builds a gateway for secretKey. apiURL overrides the Stripe
// API base URL and is meant for tests; empty means the real API.
// Network retries are disabled: a checkout session is not safe to create twice.
func NewStripeGateway(secretKey, apiURL string) *StripeGateway {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}

	return &StripeGateway{
		secretKey: secretKey,
		sessions: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Key: secretKey,
		},
	}
}

func (g *StripeGateway) Configured() bool {
	return g.secretKey != ""
}

func (g *StripeGateway) CreatePaymentSession(ctx context.Context, req checkout.SessionRequest) (checkout.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines)),
	}
	params.Context = ctx

	for _, l := range req.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(l.Name),
		}
		if l.ImageURL != "" {
			product.Images = []*string{stripe.String(l.ImageURL)}
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(l.UnitAmount),
			},
			Quantity: stripe.Int64(int64(l.Quantity)),
		})
	}

	sess, err := g.sessions.New(params)
	if err != nil {
		return checkout.Session{}, &checkout.GatewayRequestError{Message: stripeMessage(err), Err: err}
	}
	return checkout.Session{ID: sess.ID, URL: sess.URL}, nil
}

func stripeMessage(err error) string {
	var serr *stripe.Error
	if errors.As(err, &serr) && serr.Msg != "" {
		return serr.Msg
	}
	return fmt.Sprint(err)
}
