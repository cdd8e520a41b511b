// File: services/payment/gateway.go
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// Gateway abstracts the card processor. Cash payments never touch it.
type Gateway interface {
	// CreateIntent registers the charge and returns the processor's
	// transaction id. Settlement arrives later through the webhook.
	CreateIntent(ctx context.Context, amountVND int64, bookingID, paymentID string) (string, error)
	// Refund reverses a settled transaction, fully or partially.
	Refund(ctx context.Context, transactionID string, amountVND int64) error
}

// StripeGateway charges through Stripe PaymentIntents. Amounts are VND,
// a zero-decimal currency, so no cent conversion applies.
type StripeGateway struct{}

func (StripeGateway) CreateIntent(ctx context.Context, amountVND int64, bookingID, paymentID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountVND),
		Currency: stripe.String(string(stripe.CurrencyVND)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", bookingID)
	params.AddMetadata("payment_id", paymentID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent creation failed: %w", err)
	}
	return intent.ID, nil
}

func (StripeGateway) Refund(ctx context.Context, transactionID string, amountVND int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
		Amount:        stripe.Int64(amountVND),
	}
	params.Context = ctx
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}
	return nil
}
