package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/dto"
	apierrors "github.com/yukikurage/pickup-line-api/internal/errors"
	"github.com/yukikurage/pickup-line-api/internal/middleware"
	"github.com/yukikurage/pickup-line-api/internal/services"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
	log             *zap.Logger
}

func NewSettingsHandler(settingsService *services.SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		log:             log,
	}
}

// GetSettings returns the caller's settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	settings, err := h.settingsService.Get(userID)
	if err != nil {
		h.respondSettingsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsDTO(*settings))
}

// UpdateSettings applies a partial update
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.Update(userID, req.ToUpdateSettingsInput())
	if err != nil {
		h.respondSettingsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateSettingsResponse{
		Message:  "Settings updated successfully",
		Settings: dto.ToSettingsDTO(*settings),
	})
}

// ListModels returns the models a user may choose from
func (h *SettingsHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ModelsResponse{Models: h.settingsService.Models()})
}

func (h *SettingsHandler) respondSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSettingsNotFound):
		apierrors.NotFound(c, "Settings not found")
	case errors.Is(err, services.ErrInvalidTemperature):
		apierrors.BadRequest(c, "Temperature must be between 0 and 2")
	case errors.Is(err, services.ErrInvalidMaxTokens):
		apierrors.BadRequest(c, "Max tokens must be between 50 and 500")
	case errors.Is(err, services.ErrInvalidDirtiness):
		apierrors.BadRequest(c, "Dirtiness level must be between 1 and 10")
	case errors.Is(err, services.ErrInvalidStyle):
		apierrors.BadRequest(c, "Style must be one of: "+strings.Join(constants.ValidStyles, ", "))
	case errors.Is(err, services.ErrInvalidModel):
		apierrors.BadRequest(c, "Preferred model cannot be empty")
	default:
		h.log.Error("Settings request failed", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
	}
}
