package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Save persists a new subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, s *billing.Subscription) error {
	var model models.SubscriptionModel
	model.FromDomain(s)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing subscription
func (r *GormSubscriptionRepository) Update(ctx context.Context, s *billing.Subscription) error {
	var model models.SubscriptionModel
	model.FromDomain(s)
	result := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a subscription by its ID, with its plan loaded
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Preload("Plan").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByCustomer finds the customer's active subscription
func (r *GormSubscriptionRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Preload("Plan").
		Where("customer_id = ? AND status = ?", customerID, billing.SubscriptionStatusActive.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllActive finds all active subscriptions with their plans loaded
func (r *GormSubscriptionRepository) FindAllActive(ctx context.Context) ([]*billing.Subscription, error) {
	var subModels []models.SubscriptionModel
	if err := r.db.WithContext(ctx).Preload("Plan").
		Where("status = ?", billing.SubscriptionStatusActive.String()).
		Find(&subModels).Error; err != nil {
		return nil, err
	}

	subs := make([]*billing.Subscription, len(subModels))
	for i := range subModels {
		subs[i] = subModels[i].ToDomain()
	}
	return subs, nil
}
