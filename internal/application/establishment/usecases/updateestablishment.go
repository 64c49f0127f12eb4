package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	vo "academos/internal/domain/establishment/value_objects"
	"academos/internal/shared/errors"
	"academos/internal/shared/logger"
)

// UpdateEstablishmentUseCase updates registry metadata for an establishment.
// The slug and the tenant database are never touched here; the database name
// derives from the ID, so renames are registry-only operations.
type UpdateEstablishmentUseCase struct {
	repo   domainEst.Repository
	logger logger.Interface
}

// NewUpdateEstablishmentUseCase creates a new update establishment use case
func NewUpdateEstablishmentUseCase(repo domainEst.Repository, logger logger.Interface) *UpdateEstablishmentUseCase {
	return &UpdateEstablishmentUseCase{repo: repo, logger: logger}
}

// Execute applies the non-nil fields of the request to the establishment
func (uc *UpdateEstablishmentUseCase) Execute(ctx context.Context, id uint, request dto.UpdateEstablishmentRequest) (*dto.EstablishmentResponse, error) {
	est, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to fetch establishment", "establishment_id", id, "error", err)
		return nil, fmt.Errorf("failed to fetch establishment: %w", err)
	}
	if est == nil {
		return nil, domainEst.NewUnknownTenantError(id)
	}

	if request.Name != nil {
		name, err := vo.NewName(*request.Name)
		if err != nil {
			return nil, errors.NewValidationError("invalid name", err.Error())
		}
		if err := est.Rename(name); err != nil {
			return nil, errors.NewValidationError("invalid name", err.Error())
		}
	}

	est.UpdateProfile(request.Description, request.Logo, request.Domain)

	if request.Settings != nil {
		est.UpdateSettings(request.Settings)
	}

	if err := uc.repo.Update(ctx, est); err != nil {
		uc.logger.Errorw("failed to update establishment", "establishment_id", id, "error", err)
		return nil, fmt.Errorf("failed to update establishment: %w", err)
	}

	uc.logger.Infow("establishment updated", "establishment_id", id)
	return toEstablishmentResponse(est), nil
}
