// Package http wires the gin engine for the establishment admin API.
package http

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"academos/internal/interfaces/http/handlers"
	"academos/internal/interfaces/http/middleware"
	"academos/internal/shared/constants"
	"academos/internal/shared/logger"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	}
}

// RouterConfig carries the dependencies the HTTP router needs
type RouterConfig struct {
	Environment   string
	BaseDomain    string
	Establishment *handlers.EstablishmentHandler
	SlugResolver  middleware.SlugResolver
	Logger        logger.Interface
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Logger(cfg.Logger))
	engine.Use(middleware.Recovery(cfg.Logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		establishments := api.Group("/establishments")
		{
			establishments.POST("", cfg.Establishment.Create)
			establishments.GET("", cfg.Establishment.List)
			establishments.GET("/:id", cfg.Establishment.Get)
			establishments.PATCH("/:id", cfg.Establishment.Update)
			establishments.POST("/:id/deactivate", cfg.Establishment.Deactivate)
			establishments.POST("/:id/reactivate", cfg.Establishment.Reactivate)
			establishments.GET("/:id/stats", cfg.Establishment.Stats)
		}

		// Public, unauthenticated surface.
		api.GET("/public/:slug", cfg.Establishment.PublicProfile)

		// Tenant-scoped routes resolve the establishment from the request
		// itself instead of a path parameter.
		tenant := api.Group("/tenant")
		tenant.Use(middleware.ResolveEstablishment(cfg.SlugResolver, cfg.BaseDomain, cfg.Logger))
		{
			tenant.GET("/stats", func(c *gin.Context) {
				id, ok := middleware.GetEstablishmentID(c)
				if !ok {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "establishment not resolved"})
					return
				}
				c.Params = append(c.Params, gin.Param{Key: "id", Value: strconv.FormatUint(uint64(id), 10)})
				cfg.Establishment.Stats(c)
			})
		}
	}

	return engine
}
