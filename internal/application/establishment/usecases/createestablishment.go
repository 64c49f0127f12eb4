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

// CreateEstablishmentUseCase registers a new establishment in the registry
// and eagerly provisions its tenant database.
type CreateEstablishmentUseCase struct {
	repo   domainEst.Repository
	router TenantRouter
	logger logger.Interface
}

// NewCreateEstablishmentUseCase creates a new create establishment use case
func NewCreateEstablishmentUseCase(
	repo domainEst.Repository,
	router TenantRouter,
	logger logger.Interface,
) *CreateEstablishmentUseCase {
	return &CreateEstablishmentUseCase{
		repo:   repo,
		router: router,
		logger: logger,
	}
}

// Execute validates the request, inserts the registry row and provisions the
// tenant database. Provisioning failure does not roll the registration back;
// the database is provisioned again on first access, so a transient outage
// during signup never loses the establishment.
func (uc *CreateEstablishmentUseCase) Execute(ctx context.Context, request dto.CreateEstablishmentRequest) (*dto.CreateEstablishmentResponse, error) {
	uc.logger.Infow("executing create establishment use case", "name", request.Name)

	name, err := vo.NewName(request.Name)
	if err != nil {
		return nil, errors.NewValidationError("invalid name", err.Error())
	}

	var slug *vo.Slug
	if request.Slug != "" {
		slug, err = vo.NewSlug(request.Slug)
	} else {
		slug, err = vo.Slugify(request.Name)
	}
	if err != nil {
		return nil, errors.NewValidationError("invalid slug", err.Error())
	}

	est, err := domainEst.NewEstablishment(name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create establishment: %w", err)
	}

	if err := uc.repo.Create(ctx, est); err != nil {
		if domainEst.IsDuplicateSlug(err) {
			uc.logger.Warnw("slug already in use", "slug", slug.String())
			return nil, err
		}
		uc.logger.Errorw("failed to persist establishment", "error", err)
		return nil, fmt.Errorf("failed to save establishment: %w", err)
	}

	provisioned := false
	if h, perr := uc.router.TenantHandle(ctx, est.ID()); perr != nil {
		uc.logger.Warnw("eager provisioning failed, will retry on first access",
			"establishment_id", est.ID(), "error", perr)
	} else {
		h.Release()
		provisioned = true
	}

	uc.logger.Infow("establishment created",
		"establishment_id", est.ID(),
		"slug", slug.String(),
		"provisioned", provisioned)
	return &dto.CreateEstablishmentResponse{
		Establishment: toEstablishmentResponse(est),
		Provisioned:   provisioned,
	}, nil
}
