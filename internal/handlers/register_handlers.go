package handlers

import (
	"log"
	"unicode"

	portssvc "github.com/openmerch/pricing-service/internal/core/ports/services"
	"github.com/openmerch/pricing-service/internal/middleware"
	"github.com/openmerch/pricing-service/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	pool *pgxpool.Pool,
) {
	registerCustomValidators()

	registerHealthRoutes(r, pool)

	// Price resolution is the public storefront surface; no auth, but rate limited.
	setupPublicRoutes(r, cfg, services)

	// Currency and rate administration sits behind JWT auth.
	setupAPIV1Routes(r, cfg, services)
}

// setupPublicRoutes configures the unauthenticated price resolution endpoints.
func setupPublicRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	public := r.Group("/api/v1", middleware.RateLimit(newRateLimiter(cfg.RateLimit)))
	registerPricingRoutes(public, services.Pricing)
}

// setupAPIV1Routes configures the /api/v1/admin group and delegates to specific entity
// route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	admin := r.Group("/api/v1/admin", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCurrencyRoutes(admin, services.Currency)
	registerRateRoutes(admin, services.Rates)
}

// newRateLimiter builds an in-memory limiter from a formatted rate like "120-M".
func newRateLimiter(formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Printf("Warning: Invalid rate limit format '%s'. Defaulting to 120-M.\n", formatted)
		rate, _ = limiter.NewRateFromFormatted("120-M")
	}
	return limiter.New(limitermem.NewStore(), rate)
}

// registerCustomValidators installs the currencycode validation used by request DTOs:
// exactly three uppercase ASCII letters.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if r > unicode.MaxASCII || !unicode.IsUpper(r) {
				return false
			}
		}
		return true
	})
}
