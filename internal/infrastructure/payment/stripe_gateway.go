package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StripeGateway implements PaymentGateway against the Stripe API
type StripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway creates a Stripe-backed gateway. The API key is
// process-wide; Stripe's Go client holds it in package state.
func NewStripeGateway(apiKey string, logger *zap.Logger) (*StripeGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe: API key is required")
	}
	stripe.Key = apiKey
	return &StripeGateway{logger: logger}, nil
}

// CreatePaymentIntent creates a pending charge for the given amount
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount valueobject.Money, metadata map[string]string) (*billing.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Cents()),
		Currency: stripe.String(strings.ToLower(string(amount.Currency()))),
	}
	params.Context = ctx
	params.Metadata = metadata

	intent, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("Failed to create payment intent",
			zap.String("amount", amount.StringFixed()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created payment intent",
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount_cents", intent.Amount))

	return &billing.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.Amount,
		Currency:     amount.Currency(),
		Status:       string(intent.Status),
		Metadata:     metadata,
	}, nil
}

// ConfirmPayment confirms a pending payment intent
func (g *StripeGateway) ConfirmPayment(ctx context.Context, paymentIntentID string) error {
	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx

	if _, err := paymentintent.Confirm(paymentIntentID, params); err != nil {
		g.logger.Error("Failed to confirm payment",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to confirm payment: %w", err)
	}
	return nil
}

// RefundPayment refunds part or all of a confirmed payment
func (g *StripeGateway) RefundPayment(ctx context.Context, paymentIntentID string, amount valueobject.Money) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amount.Cents()),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		g.logger.Error("Failed to refund payment",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("amount", amount.StringFixed()),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to refund payment: %w", err)
	}

	g.logger.Info("Refunded payment",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("amount", amount.StringFixed()))
	return nil
}

// PaymentStatus returns the current status of a payment intent
func (g *StripeGateway) PaymentStatus(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		return "", fmt.Errorf("stripe: failed to get payment intent: %w", err)
	}
	return string(intent.Status), nil
}
