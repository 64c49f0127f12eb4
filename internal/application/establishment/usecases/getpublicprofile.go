package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	"academos/internal/shared/logger"
	"academos/internal/shared/services/markdown"
)

// GetPublicProfileUseCase serves the unauthenticated establishment profile.
// The description is stored as markdown and rendered to sanitized HTML here.
type GetPublicProfileUseCase struct {
	repo     domainEst.Repository
	markdown markdown.MarkdownService
	logger   logger.Interface
}

// NewGetPublicProfileUseCase creates a new public profile use case
func NewGetPublicProfileUseCase(
	repo domainEst.Repository,
	markdownSvc markdown.MarkdownService,
	logger logger.Interface,
) *GetPublicProfileUseCase {
	return &GetPublicProfileUseCase{
		repo:     repo,
		markdown: markdownSvc,
		logger:   logger,
	}
}

// Execute returns the public profile for an active establishment. Deactivated
// establishments are indistinguishable from unknown slugs on this surface.
func (uc *GetPublicProfileUseCase) Execute(ctx context.Context, slug string) (*dto.PublicProfileResponse, error) {
	est, err := uc.repo.GetBySlug(ctx, slug)
	if err != nil {
		uc.logger.Errorw("failed to fetch establishment by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to fetch establishment: %w", err)
	}
	if est == nil || !est.IsActive() {
		return nil, domainEst.NewUnknownTenantError(0)
	}

	response := &dto.PublicProfileResponse{
		Name:   est.Name().String(),
		Slug:   est.Slug().String(),
		Logo:   est.Logo(),
		Domain: est.Domain(),
	}

	if est.Description() != "" {
		rendered, err := uc.markdown.ToHTMLSanitized(est.Description())
		if err != nil {
			uc.logger.Warnw("failed to render establishment description", "slug", slug, "error", err)
		} else {
			response.DescriptionHTML = rendered
		}
	}

	return response, nil
}
