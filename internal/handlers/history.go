package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/dto"
	apierrors "github.com/yukikurage/pickup-line-api/internal/errors"
	"github.com/yukikurage/pickup-line-api/internal/middleware"
	"github.com/yukikurage/pickup-line-api/internal/services"
	"github.com/yukikurage/pickup-line-api/internal/utils"
	"go.uber.org/zap"
)

type HistoryHandler struct {
	historyService *services.HistoryService
	log            *zap.Logger
}

func NewHistoryHandler(historyService *services.HistoryService, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		log:            log,
	}
}

// ListHistory returns the caller's entries newest-first
// Can filter by style, min_rating, used_only and success_only
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListHistoryInput{
		UserID:      userID,
		UsedOnly:    queryBool(c, "used_only"),
		SuccessOnly: queryBool(c, "success_only"),
		Pagination:  utils.GetPaginationParams(c),
	}
	if style := c.Query("style"); style != "" {
		input.Style = &style
	}
	// a malformed min_rating is ignored, like malformed paging values
	if minRating, err := strconv.Atoi(c.Query("min_rating")); err == nil {
		input.MinRating = &minRating
	}

	page, err := h.historyService.List(input)
	if err != nil {
		h.log.Error("Failed to list history", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoryListResponse(*page))
}

// GetStats returns aggregated statistics over the caller's history
func (h *HistoryHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		days = constants.DefaultStatsDays
	}

	stats, err := h.historyService.Stats(userID, days)
	if err != nil {
		h.log.Error("Failed to compute stats", zap.Error(err))
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteEntry removes one of the caller's entries
func (h *HistoryHandler) DeleteEntry(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entryID, ok := entryIDParam(c)
	if !ok {
		apierrors.NotFound(c, "History item not found")
		return
	}

	if err := h.historyService.Delete(userID, entryID); err != nil {
		if errors.Is(err, services.ErrHistoryNotFound) {
			apierrors.NotFound(c, "History item not found")
			return
		}
		h.log.Error("Failed to delete history entry", zap.Error(err))
		apierrors.InternalError(c, "Failed to delete history item")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "History item deleted successfully"})
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(key, "false"))
	return err == nil && v
}
