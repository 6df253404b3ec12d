package paymentgateway

import (
	"context"
	"net/url"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
)

// PaymentGateway defines the interface for payment gateway integrations
type PaymentGateway interface {
	Provider() vo.Provider
	// CreatePayment registers a payment with the provider. Network and
	// provider failures are returned as provider errors.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	// ParseCallback verifies and parses a status message, whether pushed to
	// the webhook or returned by a poll. A bad hash is an invalid signature
	// error. Amounts are returned in minor units.
	ParseCallback(fields url.Values) (*payment.Callback, error)
	// Poll fetches the current status from the provider's poll URL.
	Poll(ctx context.Context, pollURL string) (*payment.Callback, error)
}

// CreatePaymentRequest contains the data needed to create a payment
type CreatePaymentRequest struct {
	Reference   string
	AmountCents int64
	Currency    string
	Description string
	PayerEmail  string
}

type CreatePaymentResponse struct {
	RedirectURL string
	PollURL     string
}
