package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	"academos/internal/shared/logger"
)

// DeactivateEstablishmentUseCase soft-deactivates an establishment. The
// tenant database stays on disk untouched; only routing to it stops.
type DeactivateEstablishmentUseCase struct {
	repo     domainEst.Repository
	router   TenantRouter
	resolver SlugInvalidator
	logger   logger.Interface
}

// NewDeactivateEstablishmentUseCase creates a new deactivate establishment use case
func NewDeactivateEstablishmentUseCase(
	repo domainEst.Repository,
	router TenantRouter,
	resolver SlugInvalidator,
	logger logger.Interface,
) *DeactivateEstablishmentUseCase {
	return &DeactivateEstablishmentUseCase{
		repo:     repo,
		router:   router,
		resolver: resolver,
		logger:   logger,
	}
}

// Execute flips the active flag, evicts the cached tenant handle and drops
// the cached slug mapping so new requests stop resolving to this tenant
func (uc *DeactivateEstablishmentUseCase) Execute(ctx context.Context, id uint) (*dto.EstablishmentResponse, error) {
	est, err := uc.repo.Deactivate(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to deactivate establishment", "establishment_id", id, "error", err)
		return nil, fmt.Errorf("failed to deactivate establishment: %w", err)
	}
	if est == nil {
		return nil, domainEst.NewUnknownTenantError(id)
	}

	uc.router.Evict(ctx, id)
	uc.resolver.Invalidate(ctx, est.Slug().String())

	uc.logger.Infow("establishment deactivated", "establishment_id", id, "slug", est.Slug().String())
	return toEstablishmentResponse(est), nil
}
