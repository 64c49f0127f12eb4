package usecases

import (
	"context"
	"fmt"

	"academos/internal/application/establishment/dto"
	"academos/internal/infrastructure/persistence/models"
	"academos/internal/shared/logger"
)

// GetEstablishmentStatsUseCase counts the records in one tenant database.
// Going through the router means a first stats call on a fresh tenant
// provisions its database.
type GetEstablishmentStatsUseCase struct {
	router TenantRouter
	logger logger.Interface
}

// NewGetEstablishmentStatsUseCase creates a new stats use case
func NewGetEstablishmentStatsUseCase(router TenantRouter, logger logger.Interface) *GetEstablishmentStatsUseCase {
	return &GetEstablishmentStatsUseCase{router: router, logger: logger}
}

// Execute returns user, course and theme counts for the establishment
func (uc *GetEstablishmentStatsUseCase) Execute(ctx context.Context, id uint) (*dto.EstablishmentStatsResponse, error) {
	h, err := uc.router.TenantHandle(ctx, id)
	if err != nil {
		return nil, err
	}
	defer h.Release()

	db := h.DB().WithContext(ctx)
	stats := &dto.EstablishmentStatsResponse{EstablishmentID: id}

	if err := db.Model(&models.TenantUserModel{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.TenantCourseModel{}).Count(&stats.Courses).Error; err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	if err := db.Model(&models.TenantThemeModel{}).Count(&stats.Themes).Error; err != nil {
		return nil, fmt.Errorf("failed to count themes: %w", err)
	}

	return stats, nil
}
