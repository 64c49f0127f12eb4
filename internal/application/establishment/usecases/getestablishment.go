package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	"academos/internal/shared/logger"
)

// GetEstablishmentUseCase fetches one establishment by ID or slug
type GetEstablishmentUseCase struct {
	repo   domainEst.Repository
	logger logger.Interface
}

// NewGetEstablishmentUseCase creates a new get establishment use case
func NewGetEstablishmentUseCase(repo domainEst.Repository, logger logger.Interface) *GetEstablishmentUseCase {
	return &GetEstablishmentUseCase{repo: repo, logger: logger}
}

// ByID returns the establishment with the given ID, active or not
func (uc *GetEstablishmentUseCase) ByID(ctx context.Context, id uint) (*dto.EstablishmentResponse, error) {
	est, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to fetch establishment", "establishment_id", id, "error", err)
		return nil, fmt.Errorf("failed to fetch establishment: %w", err)
	}
	if est == nil {
		return nil, domainEst.NewUnknownTenantError(id)
	}
	return toEstablishmentResponse(est), nil
}

// BySlug returns the establishment with the given slug. When both an active
// and a deactivated establishment carry the slug, the active one wins.
func (uc *GetEstablishmentUseCase) BySlug(ctx context.Context, slug string) (*dto.EstablishmentResponse, error) {
	est, err := uc.repo.GetBySlug(ctx, slug)
	if err != nil {
		uc.logger.Errorw("failed to fetch establishment by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to fetch establishment: %w", err)
	}
	if est == nil {
		return nil, domainEst.NewUnknownTenantError(0)
	}
	return toEstablishmentResponse(est), nil
}
