package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	domainEst "academos/internal/domain/establishment"
	"academos/internal/shared/logger"
)

// ListEstablishmentsUseCase lists registered establishments
type ListEstablishmentsUseCase struct {
	repo   domainEst.Repository
	logger logger.Interface
}

// NewListEstablishmentsUseCase creates a new list establishments use case
func NewListEstablishmentsUseCase(repo domainEst.Repository, logger logger.Interface) *ListEstablishmentsUseCase {
	return &ListEstablishmentsUseCase{repo: repo, logger: logger}
}

// Execute returns all establishments, optionally filtered to active ones
func (uc *ListEstablishmentsUseCase) Execute(ctx context.Context, request dto.ListEstablishmentsRequest) (*dto.ListEstablishmentsResponse, error) {
	ests, err := uc.repo.GetAll(ctx, request.ActiveOnly)
	if err != nil {
		uc.logger.Errorw("failed to list establishments", "error", err)
		return nil, fmt.Errorf("failed to list establishments: %w", err)
	}

	responses := make([]*dto.EstablishmentResponse, 0, len(ests))
	for _, est := range ests {
		responses = append(responses, toEstablishmentResponse(est))
	}
	return &dto.ListEstablishmentsResponse{
		Establishments: responses,
		Total:          len(responses),
	}, nil
}
