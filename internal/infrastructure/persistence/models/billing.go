package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// PlanModel is the persistence model for plans
type PlanModel struct {
	BaseModel
	Name         string            `gorm:"not null"`
	Slug         string            `gorm:"not null;uniqueIndex"`
	Description  string
	Price        valueobject.Money `gorm:"type:numeric(12,2);not null"`
	Currency     string            `gorm:"size:3;not null"`
	BillingCycle string            `gorm:"not null"`
	TrialDays    int               `gorm:"not null;default:0"`
	Active       bool              `gorm:"not null;default:true;index"`
}

// TableName returns the table name for PlanModel
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the model to a domain plan
func (m *PlanModel) ToDomain() *billing.Plan {
	return &billing.Plan{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		Price:        m.Price.WithCurrency(valueobject.Currency(m.Currency)),
		BillingCycle: valueobject.BillingCycle(m.BillingCycle),
		TrialDays:    m.TrialDays,
		Active:       m.Active,
	}
}

// FromDomain populates the model from a domain plan
func (m *PlanModel) FromDomain(p *billing.Plan) {
	m.BaseModel.FromDomain(p.BaseEntity)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.Price = p.Price
	m.Currency = string(p.Price.Currency())
	m.BillingCycle = p.BillingCycle.String()
	m.TrialDays = p.TrialDays
	m.Active = p.Active
}

// SubscriptionModel is the persistence model for subscriptions
type SubscriptionModel struct {
	BaseModel
	CustomerID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	PlanID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	Plan              *PlanModel        `gorm:"foreignKey:PlanID"`
	Amount            valueobject.Money `gorm:"type:numeric(12,2);not null"`
	Currency          string            `gorm:"size:3;not null"`
	Status            string            `gorm:"not null;index"`
	StartsAt          time.Time         `gorm:"not null"`
	EndsAt            *time.Time
	TrialEndsAt       *time.Time
	CancelAtPeriodEnd *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for SubscriptionModel
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the model to a domain subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	sub := &billing.Subscription{
		BaseEntity:        m.BaseModel.ToDomain(),
		CustomerID:        m.CustomerID,
		PlanID:            m.PlanID,
		Amount:            m.Amount.WithCurrency(valueobject.Currency(m.Currency)),
		Status:            billing.SubscriptionStatus(m.Status),
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		TrialEndsAt:       m.TrialEndsAt,
		CancelAtPeriodEnd: m.CancelAtPeriodEnd,
		CancelledAt:       m.CancelledAt,
	}
	if m.Plan != nil {
		sub.Plan = m.Plan.ToDomain()
	}
	return sub
}

// FromDomain populates the model from a domain subscription
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.BaseModel.FromDomain(s.BaseEntity)
	m.CustomerID = s.CustomerID
	m.PlanID = s.PlanID
	m.Amount = s.Amount
	m.Currency = string(s.Amount.Currency())
	m.Status = s.Status.String()
	m.StartsAt = s.StartsAt
	m.EndsAt = s.EndsAt
	m.TrialEndsAt = s.TrialEndsAt
	m.CancelAtPeriodEnd = s.CancelAtPeriodEnd
	m.CancelledAt = s.CancelledAt
}

// InvoiceModel is the persistence model for invoices
type InvoiceModel struct {
	BaseModel
	SubscriptionID uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Subtotal       valueobject.Money `gorm:"type:numeric(12,2);not null"`
	TaxAmount      valueobject.Money `gorm:"type:numeric(12,2);not null"`
	DiscountAmount valueobject.Money `gorm:"type:numeric(12,2);not null"`
	TotalAmount    valueobject.Money `gorm:"type:numeric(12,2);not null"`
	Currency       string            `gorm:"size:3;not null"`
	Status         string            `gorm:"not null;index"`
	IssuedAt       time.Time         `gorm:"not null"`
	PaidAt         *time.Time
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	currency := valueobject.Currency(m.Currency)
	return &billing.Invoice{
		BaseEntity:     m.BaseModel.ToDomain(),
		SubscriptionID: m.SubscriptionID,
		CustomerID:     m.CustomerID,
		Subtotal:       m.Subtotal.WithCurrency(currency),
		TaxAmount:      m.TaxAmount.WithCurrency(currency),
		DiscountAmount: m.DiscountAmount.WithCurrency(currency),
		TotalAmount:    m.TotalAmount.WithCurrency(currency),
		Status:         billing.InvoiceStatus(m.Status),
		IssuedAt:       m.IssuedAt,
		PaidAt:         m.PaidAt,
	}
}

// FromDomain populates the model from a domain invoice
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.BaseModel.FromDomain(i.BaseEntity)
	m.SubscriptionID = i.SubscriptionID
	m.CustomerID = i.CustomerID
	m.Subtotal = i.Subtotal
	m.TaxAmount = i.TaxAmount
	m.DiscountAmount = i.DiscountAmount
	m.TotalAmount = i.TotalAmount
	m.Currency = string(i.Subtotal.Currency())
	m.Status = string(i.Status)
	m.IssuedAt = i.IssuedAt
	m.PaidAt = i.PaidAt
}
