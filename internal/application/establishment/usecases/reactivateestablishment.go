package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	"academos/internal/shared/logger"
)

// ReactivateEstablishmentUseCase reverses a soft-deactivation. The tenant
// database was never deleted, so routing resumes against the existing data.
type ReactivateEstablishmentUseCase struct {
	repo     domainEst.Repository
	resolver SlugInvalidator
	logger   logger.Interface
}

// NewReactivateEstablishmentUseCase creates a new reactivate establishment use case
func NewReactivateEstablishmentUseCase(
	repo domainEst.Repository,
	resolver SlugInvalidator,
	logger logger.Interface,
) *ReactivateEstablishmentUseCase {
	return &ReactivateEstablishmentUseCase{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// Execute flips the active flag back on and drops any stale slug mapping
func (uc *ReactivateEstablishmentUseCase) Execute(ctx context.Context, id uint) (*dto.EstablishmentResponse, error) {
	est, err := uc.repo.Reactivate(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to reactivate establishment", "establishment_id", id, "error", err)
		return nil, fmt.Errorf("failed to reactivate establishment: %w", err)
	}
	if est == nil {
		return nil, domainEst.NewUnknownTenantError(id)
	}

	uc.resolver.Invalidate(ctx, est.Slug().String())

	uc.logger.Infow("establishment reactivated", "establishment_id", id)
	return toEstablishmentResponse(est), nil
}
