package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusOpen  InvoiceStatus = "open"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// Invoice represents a billed amount with its tax and discount breakdown.
// The stored totals are what was actually billed; CalculationService can
// independently recompute them for cross-checking.
type Invoice struct {
	shared.BaseEntity
	SubscriptionID uuid.UUID
	CustomerID     uuid.UUID
	Subtotal       valueobject.Money
	TaxAmount      valueobject.Money
	DiscountAmount valueobject.Money
	TotalAmount    valueobject.Money
	Status         InvoiceStatus
	IssuedAt       time.Time
	PaidAt         *time.Time
}

// NewInvoice creates a draft invoice. All amounts must share a currency.
func NewInvoice(subscriptionID, customerID uuid.UUID, subtotal, tax, discount, total valueobject.Money, issuedAt time.Time) (*Invoice, error) {
	if subscriptionID == uuid.Nil {
		return nil, shared.NewInvalidArgument("subscription ID cannot be empty")
	}
	currency := subtotal.Currency()
	for _, m := range []valueobject.Money{tax, discount, total} {
		if m.Currency() != currency {
			return nil, shared.NewInvalidArgument("invoice amounts must share a single currency")
		}
	}

	return &Invoice{
		BaseEntity:     shared.NewBaseEntity(),
		SubscriptionID: subscriptionID,
		CustomerID:     customerID,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    total,
		Status:         InvoiceStatusDraft,
		IssuedAt:       issuedAt,
	}, nil
}

// Open marks a draft invoice as awaiting payment
func (i *Invoice) Open() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewInvalidTransition("only draft invoices can be opened")
	}
	i.Status = InvoiceStatusOpen
	i.Touch()
	return nil
}

// MarkPaid records payment of an open invoice
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.Status != InvoiceStatusOpen {
		return shared.NewInvalidTransition("only open invoices can be marked paid")
	}
	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	i.Touch()
	return nil
}

// Void cancels an unpaid invoice
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewInvalidTransition("paid invoices cannot be voided")
	}
	i.Status = InvoiceStatusVoid
	i.Touch()
	return nil
}
