// Package mappers converts between domain aggregates and persistence models.
package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"academos/internal/domain/establishment"
	vo "academos/internal/domain/establishment/value_objects"
	"academos/internal/infrastructure/persistence/models"
)

// EstablishmentMapper maps between the establishment aggregate and its
// registry persistence model
type EstablishmentMapper interface {
	ToModel(entity *establishment.Establishment) (*models.EstablishmentModel, error)
	ToEntity(model *models.EstablishmentModel) (*establishment.Establishment, error)
}

type establishmentMapper struct{}

// NewEstablishmentMapper creates a new EstablishmentMapper
func NewEstablishmentMapper() EstablishmentMapper {
	return &establishmentMapper{}
}

func (m *establishmentMapper) ToModel(entity *establishment.Establishment) (*models.EstablishmentModel, error) {
	if entity == nil {
		return nil, fmt.Errorf("establishment entity is nil")
	}

	return &models.EstablishmentModel{
		ID:          entity.ID(),
		Name:        entity.Name().String(),
		Slug:        entity.Slug().String(),
		Description: entity.Description(),
		Logo:        entity.Logo(),
		Domain:      entity.Domain(),
		IsActive:    entity.IsActive(),
		Settings:    datatypes.JSONMap(entity.Settings()),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func (m *establishmentMapper) ToEntity(model *models.EstablishmentModel) (*establishment.Establishment, error) {
	if model == nil {
		return nil, fmt.Errorf("establishment model is nil")
	}

	name, err := vo.NewName(model.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid name in persistence model: %w", err)
	}

	slug, err := vo.NewSlug(model.Slug)
	if err != nil {
		return nil, fmt.Errorf("invalid slug in persistence model: %w", err)
	}

	return establishment.ReconstructEstablishment(
		model.ID,
		name,
		slug,
		model.Description,
		model.Logo,
		model.Domain,
		model.IsActive,
		map[string]interface{}(model.Settings),
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}
