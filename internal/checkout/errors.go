package checkout

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrGatewayUnconfigured = errors.New("payment gateway is not configured")
)

// GatewayRequestError carries the payment gateway's own failure message.
type GatewayRequestError struct {
	Message string
	Err     error
}

func (e *GatewayRequestError) Error() string {
	return "payment gateway: " + e.Message
}

func (e *GatewayRequestError) Unwrap() error { return e.Err }
