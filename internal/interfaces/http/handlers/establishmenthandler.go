package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"academos/internal/application/establishment/dto"
	"academos/internal/application/establishment/usecases"
	"academos/internal/shared/logger"
	"academos/internal/shared/utils"
)

// EstablishmentHandler handles establishment lifecycle HTTP requests
type EstablishmentHandler struct {
	createUseCase     *usecases.CreateEstablishmentUseCase
	getUseCase        *usecases.GetEstablishmentUseCase
	listUseCase       *usecases.ListEstablishmentsUseCase
	updateUseCase     *usecases.UpdateEstablishmentUseCase
	deactivateUseCase *usecases.DeactivateEstablishmentUseCase
	reactivateUseCase *usecases.ReactivateEstablishmentUseCase
	statsUseCase      *usecases.GetEstablishmentStatsUseCase
	profileUseCase    *usecases.GetPublicProfileUseCase
	logger            logger.Interface
}

// NewEstablishmentHandler creates a new EstablishmentHandler
func NewEstablishmentHandler(
	createUseCase *usecases.CreateEstablishmentUseCase,
	getUseCase *usecases.GetEstablishmentUseCase,
	listUseCase *usecases.ListEstablishmentsUseCase,
	updateUseCase *usecases.UpdateEstablishmentUseCase,
	deactivateUseCase *usecases.DeactivateEstablishmentUseCase,
	reactivateUseCase *usecases.ReactivateEstablishmentUseCase,
	statsUseCase *usecases.GetEstablishmentStatsUseCase,
	profileUseCase *usecases.GetPublicProfileUseCase,
	logger logger.Interface,
) *EstablishmentHandler {
	return &EstablishmentHandler{
		createUseCase:     createUseCase,
		getUseCase:        getUseCase,
		listUseCase:       listUseCase,
		updateUseCase:     updateUseCase,
		deactivateUseCase: deactivateUseCase,
		reactivateUseCase: reactivateUseCase,
		statsUseCase:      statsUseCase,
		profileUseCase:    profileUseCase,
		logger:            logger,
	}
}

// Create handles POST /api/establishments
func (h *EstablishmentHandler) Create(c *gin.Context) {
	var request dto.CreateEstablishmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), request)
	if err != nil {
		h.logger.Warnw("failed to create establishment", "name", request.Name, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "establishment created")
}

// Get handles GET /api/establishments/:id
func (h *EstablishmentHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.ByID(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// List handles GET /api/establishments
func (h *EstablishmentHandler) List(c *gin.Context) {
	var request dto.ListEstablishmentsRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), request)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Update handles PATCH /api/establishments/:id
func (h *EstablishmentHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var request dto.UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, request)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "establishment updated", result)
}

// Deactivate handles POST /api/establishments/:id/deactivate
func (h *EstablishmentHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.deactivateUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "establishment deactivated", result)
}

// Reactivate handles POST /api/establishments/:id/reactivate
func (h *EstablishmentHandler) Reactivate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.reactivateUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "establishment reactivated", result)
}

// Stats handles GET /api/establishments/:id/stats
func (h *EstablishmentHandler) Stats(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.statsUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		h.logger.Warnw("failed to get establishment stats", "establishment_id", id, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// PublicProfile handles GET /api/establishments/:slug/public
func (h *EstablishmentHandler) PublicProfile(c *gin.Context) {
	slug := c.Param("slug")

	result, err := h.profileUseCase.Execute(c.Request.Context(), slug)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *EstablishmentHandler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid establishment ID")
		return 0, false
	}
	return uint(id), true
}
