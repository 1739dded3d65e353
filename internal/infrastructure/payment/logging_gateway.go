package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// LoggingGateway is a PaymentGateway for development and testing. It
// accepts every charge and refund, logging them instead of moving money.
type LoggingGateway struct {
	logger *zap.Logger

	mu      sync.RWMutex
	intents map[string]*billing.PaymentIntent
}

// NewLoggingGateway creates a new LoggingGateway
func NewLoggingGateway(logger *zap.Logger) *LoggingGateway {
	return &LoggingGateway{
		logger:  logger,
		intents: make(map[string]*billing.PaymentIntent),
	}
}

// CreatePaymentIntent records a pending charge
func (g *LoggingGateway) CreatePaymentIntent(_ context.Context, amount valueobject.Money, metadata map[string]string) (*billing.PaymentIntent, error) {
	intent := &billing.PaymentIntent{
		ID:           "pi_" + uuid.NewString(),
		ClientSecret: "secret_" + uuid.NewString(),
		AmountCents:  amount.Cents(),
		Currency:     amount.Currency(),
		Status:       "requires_confirmation",
		Metadata:     metadata,
	}

	g.mu.Lock()
	g.intents[intent.ID] = intent
	g.mu.Unlock()

	g.logger.Info("Payment intent created (not charged)",
		zap.String("payment_intent_id", intent.ID),
		zap.String("amount", amount.StringFixed()))
	return intent, nil
}

// ConfirmPayment marks a recorded intent as succeeded
func (g *LoggingGateway) ConfirmPayment(_ context.Context, paymentIntentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[paymentIntentID]
	if !ok {
		return fmt.Errorf("payment intent %s not found", paymentIntentID)
	}
	intent.Status = "succeeded"

	g.logger.Info("Payment confirmed (not charged)",
		zap.String("payment_intent_id", paymentIntentID))
	return nil
}

// RefundPayment logs a refund against a confirmed intent
func (g *LoggingGateway) RefundPayment(_ context.Context, paymentIntentID string, amount valueobject.Money) error {
	g.logger.Info("Payment refunded (not moved)",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("amount", amount.StringFixed()))
	return nil
}

// PaymentStatus returns the status of a recorded intent
func (g *LoggingGateway) PaymentStatus(_ context.Context, paymentIntentID string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	intent, ok := g.intents[paymentIntentID]
	if !ok {
		return "", fmt.Errorf("payment intent %s not found", paymentIntentID)
	}
	return intent.Status, nil
}
