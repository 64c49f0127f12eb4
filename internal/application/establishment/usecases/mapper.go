package usecases

import (
	"context"

	"academos/internal/application/establishment/dto"
	"academos/internal/domain/establishment"
	"academos/internal/infrastructure/tenantdb"
)

// TenantRouter is the slice of the router the lifecycle usecases need.
type TenantRouter interface {
	TenantHandle(ctx context.Context, establishmentID uint) (*tenantdb.Handle, error)
	Evict(ctx context.Context, establishmentID uint)
}

// SlugInvalidator drops cached slug mappings after lifecycle changes.
type SlugInvalidator interface {
	Invalidate(ctx context.Context, slug string)
}

func toEstablishmentResponse(est *establishment.Establishment) *dto.EstablishmentResponse {
	return &dto.EstablishmentResponse{
		ID:          est.ID(),
		Name:        est.Name().String(),
		Slug:        est.Slug().String(),
		Description: est.Description(),
		Logo:        est.Logo(),
		Domain:      est.Domain(),
		IsActive:    est.IsActive(),
		Settings:    est.Settings(),
		CreatedAt:   est.CreatedAt(),
		UpdatedAt:   est.UpdatedAt(),
	}
}
