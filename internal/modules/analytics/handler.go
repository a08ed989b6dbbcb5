package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meezumi/content-review-platform/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects rg to already be behind the JWT middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	stats := rg.Group("/analytics")
	{
		stats.GET("/stats", h.Stats)
		stats.GET("/docs-by-category", h.DocsByCategory)
		stats.GET("/activity-over-time", h.ActivityOverTime)
	}
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to compute stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) DocsByCategory(c *gin.Context) {
	rows, err := h.service.DocsByCategory(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to compute category counts")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) ActivityOverTime(c *gin.Context) {
	rows, err := h.service.ActivityOverTime(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to compute activity")
		return
	}
	response.Success(c, http.StatusOK, rows)
}
