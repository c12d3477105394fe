package handlers

import (
	"regexp"

	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/middleware"
	"github.com/custodix/bankcore/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// assetIDPattern constrains asset identifiers to lowercase alphanumerics
// plus dots, dashes and underscores, 1 to 64 characters.
var assetIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *ports.ServiceContainer,
) {
	registerCustomValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *ports.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerBankRoutes(v1, services.Bank)
	registerAssetRoutes(v1, services.Asset)
	registerAdminRoutes(v1, services.Bank)
}

// registerCustomValidations wires the assetid validation into Gin's binding
// validator so DTO tags can use it.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("assetid", func(fl validator.FieldLevel) bool {
			return assetIDPattern.MatchString(fl.Field().String())
		})
	}
}
