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

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// Save persists a new plan
func (r *GormPlanRepository) Save(ctx context.Context, p *billing.Plan) error {
	var model models.PlanModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing plan
func (r *GormPlanRepository) Update(ctx context.Context, p *billing.Plan) error {
	var model models.PlanModel
	model.FromDomain(p)
	result := r.db.WithContext(ctx).Model(&models.PlanModel{}).
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

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a plan by its slug
func (r *GormPlanRepository) FindBySlug(ctx context.Context, slug string) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all plans currently on sale
func (r *GormPlanRepository) FindActive(ctx context.Context) ([]*billing.Plan, error) {
	var planModels []models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at").
		Find(&planModels).Error; err != nil {
		return nil, err
	}

	plans := make([]*billing.Plan, len(planModels))
	for i := range planModels {
		plans[i] = planModels[i].ToDomain()
	}
	return plans, nil
}
