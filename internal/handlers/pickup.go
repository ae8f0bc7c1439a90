package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickup-line-api/internal/dto"
	apierrors "github.com/yukikurage/pickup-line-api/internal/errors"
	"github.com/yukikurage/pickup-line-api/internal/middleware"
	"github.com/yukikurage/pickup-line-api/internal/services"
	"go.uber.org/zap"
)

type PickupHandler struct {
	pickupService *services.PickupService
	log           *zap.Logger
}

func NewPickupHandler(pickupService *services.PickupService, log *zap.Logger) *PickupHandler {
	return &PickupHandler{
		pickupService: pickupService,
		log:           log,
	}
}

// Generate creates a pickup line for the described person
func (h *PickupHandler) Generate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.DirtinessLevel == nil {
		apierrors.BadRequest(c, "Dirtiness level must be between 1 and 10")
		return
	}

	result, err := h.pickupService.Generate(c.Request.Context(), userID, services.GenerationParams{
		PersonDescription: req.PersonDescription,
		DirtinessLevel:    *req.DirtinessLevel,
		Style:             req.Style,
	})
	if err != nil {
		h.respondPickupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerateResponse(*result))
}

// Regenerate reruns generation with the parameters of an existing entry
func (h *PickupHandler) Regenerate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entryID, ok := entryIDParam(c)
	if !ok {
		apierrors.NotFound(c, "History entry not found")
		return
	}

	result, err := h.pickupService.Regenerate(c.Request.Context(), userID, entryID)
	if err != nil {
		h.respondPickupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerateResponse(*result))
}

// Rate records feedback on an entry
func (h *PickupHandler) Rate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entryID, ok := entryIDParam(c)
	if !ok {
		apierrors.NotFound(c, "History entry not found")
		return
	}

	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	_, err := h.pickupService.Rate(userID, entryID, services.RateInput{
		Rating:  req.Rating,
		Used:    req.Used,
		Success: req.Success,
		Notes:   req.Notes,
	})
	if err != nil {
		h.respondPickupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Rating updated successfully"})
}

func (h *PickupHandler) respondPickupError(c *gin.Context, err error) {
	var genErr *services.GenerationError
	switch {
	case errors.Is(err, services.ErrDescriptionRequired):
		apierrors.BadRequest(c, "Person description is required")
	case errors.Is(err, services.ErrInvalidDirtiness):
		apierrors.BadRequest(c, "Dirtiness level must be between 1 and 10")
	case errors.Is(err, services.ErrInvalidRating):
		apierrors.BadRequest(c, "Rating must be between 1 and 5")
	case errors.Is(err, services.ErrHistoryNotFound):
		apierrors.NotFound(c, "History entry not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, "User not found")
	case errors.As(err, &genErr):
		h.log.Warn("Pickup line generation failed", zap.String("detail", genErr.Detail))
		apierrors.GenerationFailed(c, genErr.Detail)
	default:
		h.log.Error("Pickup request failed", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
	}
}
