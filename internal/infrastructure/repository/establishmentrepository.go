// Package repository contains the gorm-backed registry store.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"academos/internal/domain/establishment"
	"academos/internal/infrastructure/persistence/mappers"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/shared/errors"
	"academos/internal/shared/logger"
)

// EstablishmentRepository implements the establishment registry store on the
// shared registry database
type EstablishmentRepository struct {
	db     *gorm.DB
	mapper mappers.EstablishmentMapper
	logger logger.Interface
}

// NewEstablishmentRepository creates a new establishment repository
func NewEstablishmentRepository(db *gorm.DB, logger logger.Interface) establishment.Repository {
	return &EstablishmentRepository{
		db:     db,
		mapper: mappers.NewEstablishmentMapper(),
		logger: logger,
	}
}

// Create persists a new establishment. The slug must not collide with an
// active establishment; the check and the insert run in one transaction, and
// on MySQL the uq_establishments_active_slug key backs the check so racing
// inserts that slip past the snapshot count fail as duplicates.
func (r *EstablishmentRepository) Create(ctx context.Context, entity *establishment.Establishment) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map establishment entity to model", "error", err)
		return fmt.Errorf("failed to map establishment entity: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EstablishmentModel{}).
			Where("slug = ? AND is_active = ?", model.Slug, true).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if count > 0 {
			return establishment.NewDuplicateSlugError(model.Slug)
		}
		return tx.Create(model).Error
	})
	if err != nil {
		if establishment.IsDuplicateSlug(err) || errors.IsDuplicateError(err) {
			r.logger.Warnw("slug collision on establishment create", "slug", model.Slug)
			return establishment.NewDuplicateSlugError(model.Slug)
		}
		r.logger.Errorw("failed to create establishment in registry", "error", err)
		return fmt.Errorf("failed to create establishment: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set establishment ID", "error", err)
		return fmt.Errorf("failed to set establishment ID: %w", err)
	}

	r.logger.Infow("establishment created in registry", "id", model.ID, "slug", model.Slug)
	return nil
}

// GetByID retrieves an establishment by ID. Returns (nil, nil) when absent.
func (r *EstablishmentRepository) GetByID(ctx context.Context, id uint) (*establishment.Establishment, error) {
	var model models.EstablishmentModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get establishment by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get establishment: %w", err)
	}

	return r.toEntity(&model)
}

// GetBySlug retrieves an establishment by slug. Returns (nil, nil) when
// absent. Among an active and an inactive row sharing a slug, the active one
// wins.
func (r *EstablishmentRepository) GetBySlug(ctx context.Context, slug string) (*establishment.Establishment, error) {
	var model models.EstablishmentModel

	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Order("is_active DESC, id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get establishment by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get establishment: %w", err)
	}

	return r.toEntity(&model)
}

// GetAll retrieves all establishments ordered by creation time
func (r *EstablishmentRepository) GetAll(ctx context.Context, activeOnly bool) ([]*establishment.Establishment, error) {
	var establishmentModels []*models.EstablishmentModel

	query := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&establishmentModels).Error; err != nil {
		r.logger.Errorw("failed to list establishments", "error", err)
		return nil, fmt.Errorf("failed to list establishments: %w", err)
	}

	entities := make([]*establishment.Establishment, 0, len(establishmentModels))
	for _, model := range establishmentModels {
		entity, err := r.mapper.ToEntity(model)
		if err != nil {
			r.logger.Warnw("failed to map establishment model to entity, skipping", "id", model.ID, "error", err)
			continue
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

// Update persists changes to an existing establishment
func (r *EstablishmentRepository) Update(ctx context.Context, entity *establishment.Establishment) error {
	if entity.ID() == 0 {
		return fmt.Errorf("cannot update establishment without ID")
	}

	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map establishment entity to model", "error", err)
		return fmt.Errorf("failed to map establishment entity: %w", err)
	}

	// The BeforeUpdate hook bumps the version from the model instance, so the
	// map itself must not set it.
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"slug":        model.Slug,
			"description": model.Description,
			"logo":        model.Logo,
			"domain":      model.Domain,
			"is_active":   model.IsActive,
			"settings":    model.Settings,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update establishment", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update establishment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("establishment %d not found for update", model.ID)
	}

	r.logger.Infow("establishment updated in registry", "id", model.ID)
	return nil
}

// Deactivate soft-deletes an establishment. Returns (nil, nil) when absent.
func (r *EstablishmentRepository) Deactivate(ctx context.Context, id uint) (*establishment.Establishment, error) {
	return r.setActive(ctx, id, false)
}

// Reactivate restores a previously deactivated establishment. Returns
// (nil, nil) when absent.
func (r *EstablishmentRepository) Reactivate(ctx context.Context, id uint) (*establishment.Establishment, error) {
	return r.setActive(ctx, id, true)
}

func (r *EstablishmentRepository) setActive(ctx context.Context, id uint, active bool) (*establishment.Establishment, error) {
	var model models.EstablishmentModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, id).Error; err != nil {
			return err
		}
		return tx.Model(&model).Update("is_active", active).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to change establishment active flag", "id", id, "active", active, "error", err)
		return nil, fmt.Errorf("failed to change establishment active flag: %w", err)
	}

	model.IsActive = active
	r.logger.Infow("establishment active flag changed", "id", id, "active", active)
	return r.toEntity(&model)
}

func (r *EstablishmentRepository) toEntity(model *models.EstablishmentModel) (*establishment.Establishment, error) {
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		r.logger.Errorw("failed to map establishment model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map establishment: %w", err)
	}
	return entity, nil
}
