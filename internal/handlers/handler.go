package handlers

import (
	"cor_dashboard/internal/logger"
	"cor_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerSystemRoutes(api)
		api.GET("/reference-data", h.getReferenceData)
		// Body: one message bundle as sent by an instrument
		api.POST("/messages", h.postMessage)
	}
}

func (h *Handler) registerSystemRoutes(api *gin.RouterGroup) {
	systems := api.Group("/systems")
	{
		systems.GET("", h.listSystems)
		systems.GET("/by-region", h.systemsByRegion)
		systems.GET("/:serial", h.getSystem)
		systems.GET("/:serial/swim-lanes", h.getSwimLanes)
		systems.GET("/:serial/events", h.getSystemEvents)
		systems.GET("/:serial/timeline", h.getTimeline)
	}
}
