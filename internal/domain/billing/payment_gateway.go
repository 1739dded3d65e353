package billing

import (
	"context"

	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// PaymentIntent is the gateway's handle for a pending charge
type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     valueobject.Currency
	Status       string
	Metadata     map[string]string
}

// PaymentGateway is the outbound port for charging and refunding
// customers. The domain never talks to a payment provider directly;
// implementations live in the infrastructure layer.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount valueobject.Money, metadata map[string]string) (*PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) error
	RefundPayment(ctx context.Context, paymentIntentID string, amount valueobject.Money) error
	PaymentStatus(ctx context.Context, paymentIntentID string) (string, error)
}
