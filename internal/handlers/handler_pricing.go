package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openmerch/pricing-service/internal/apperrors"
	portssvc "github.com/openmerch/pricing-service/internal/core/ports/services"
	"github.com/openmerch/pricing-service/internal/dto"
	"github.com/openmerch/pricing-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// pricingHandler handles HTTP requests for price resolution.
type pricingHandler struct {
	pricingService portssvc.PricingSvcFacade
}

func newPricingHandler(ps portssvc.PricingSvcFacade) *pricingHandler {
	return &pricingHandler{
		pricingService: ps,
	}
}

// registerPricingRoutes registers the public price resolution routes.
func registerPricingRoutes(rg *gin.RouterGroup, pricingService portssvc.PricingSvcFacade) {
	h := newPricingHandler(pricingService)

	prices := rg.Group("/prices")
	{
		prices.POST("/resolve", h.resolvePrice)
		prices.POST("/resolve-batch", h.resolvePrices)
	}
}

// resolvePrice resolves the price of a single product.
func (h *pricingHandler) resolvePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ResolvePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolvePrice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	opts := dto.ResolveOptions{
		CurrencyCode:     req.Currency,
		CustomerGroupIDs: req.CustomerGroupIDs,
		FormatPrice:      req.FormatPrice,
	}

	result, err := h.pricingService.Resolve(c.Request.Context(), req.ProductID, quantity, opts)
	if err != nil {
		if errors.Is(err, apperrors.ErrPriceNotFound) {
			logger.Warn("No price found for product", slog.String("product_id", req.ProductID))
			c.JSON(http.StatusNotFound, gin.H{"error": "No price found for product"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error resolving price", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to resolve price", slog.String("product_id", req.ProductID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve price"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPriceResultResponse(result))
}

// resolvePrices resolves prices for a batch of products in one pass.
func (h *pricingHandler) resolvePrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ResolvePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolvePrices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	opts := dto.ResolveOptions{
		CurrencyCode:     req.Currency,
		CustomerGroupIDs: req.CustomerGroupIDs,
		FormatPrice:      req.FormatPrice,
	}

	results, err := h.pricingService.ResolveMany(c.Request.Context(), req.ProductIDs, quantity, opts)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error resolving prices", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to resolve prices", slog.Int("count", len(req.ProductIDs)), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve prices"})
		}
		return
	}

	// Products with no reachable price are simply absent from the map.
	responses := make(map[string]dto.PriceResultResponse, len(results))
	for productID, result := range results {
		responses[productID] = dto.ToPriceResultResponse(result)
	}

	logger.Info("Batch price resolution completed", slog.Int("requested", len(req.ProductIDs)), slog.Int("resolved", len(responses)))
	c.JSON(http.StatusOK, gin.H{"prices": responses})
}
