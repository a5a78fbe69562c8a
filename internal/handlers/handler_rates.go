package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/openmerch/pricing-service/internal/apperrors"
	portssvc "github.com/openmerch/pricing-service/internal/core/ports/services"
	"github.com/openmerch/pricing-service/internal/dto"
	"github.com/openmerch/pricing-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ratesHandler handles HTTP requests for the exchange rate cache.
type ratesHandler struct {
	rateService portssvc.RateSvcFacade
}

func newRatesHandler(rs portssvc.RateSvcFacade) *ratesHandler {
	return &ratesHandler{
		rateService: rs,
	}
}

// registerRateRoutes registers routes for reading and administering exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRatesHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.GET("/history", h.listRateHistory)
		rates.POST("/refresh", h.refreshRates)
		rates.PUT("", h.setRate)
		rates.DELETE("/:target", h.deleteRate)
	}
}

// getRates returns the current rate table, refreshing it if stale.
func (h *ratesHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	table, err := h.rateService.GetRates(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRateSourceUnavailable) {
			logger.Error("Rate source unavailable and no cached table", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rates are currently unavailable"})
		} else {
			logger.Error("Failed to get rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rates"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateTableResponse(table))
}

// listRateHistory returns historical rate snapshots, newest first.
func (h *ratesHandler) listRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	tables, err := h.rateService.ListRateHistory(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list rate history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateTableResponse(tables))
}

// refreshRates triggers a fetch from the external rate source. Pass force=true to
// bypass the TTL check.
func (h *ratesHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	force := strings.EqualFold(c.Query("force"), "true")

	updated, table, err := h.rateService.FetchRates(c.Request.Context(), force)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateSourceUnavailable) {
			logger.Error("Rate source unavailable during refresh", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Rate source is currently unavailable"})
		} else {
			logger.Error("Failed to refresh rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh rates"})
		}
		return
	}

	logger.Info("Rate refresh completed", slog.Bool("updated", updated))
	c.JSON(http.StatusOK, dto.RefreshResponse{
		Updated: updated,
		Table:   dto.ToRateTableResponse(table),
	})
}

// setRate installs a manual rate override.
func (h *ratesHandler) setRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context for SetRate")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("base", req.BaseCurrency), slog.String("target", req.TargetCurrency))
	logger.Info("Received request to set exchange rate")

	table, err := h.rateService.SetRate(c.Request.Context(), req.BaseCurrency, req.TargetCurrency, req.Rate)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRateInput) {
			logger.Warn("Invalid rate input", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrRateNotFound) {
			logger.Warn("Base currency has no rate in current table", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set rate"})
		}
		return
	}

	logger.Info("Exchange rate set successfully")
	c.JSON(http.StatusOK, dto.ToRateTableResponse(table))
}

// deleteRate removes a single rate from the current table.
func (h *ratesHandler) deleteRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	target := c.Param("target")
	base := c.DefaultQuery("base", "")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context for DeleteRate")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("target", target))
	logger.Info("Received request to delete exchange rate")

	table, err := h.rateService.DeleteRate(c.Request.Context(), base, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRateInput) {
			logger.Warn("Invalid delete rate input", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrRateNotFound) {
			logger.Warn("Rate not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Rate not found"})
		} else {
			logger.Error("Failed to delete rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rate"})
		}
		return
	}

	logger.Info("Exchange rate deleted successfully")
	c.JSON(http.StatusOK, dto.ToRateTableResponse(table))
}
