package comments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meezumi/content-review-platform/internal/modules/documents"
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
	rg.GET("/comments/:documentId", h.ListForDocument)
	rg.GET("/comments/:documentId/:versionId", h.ListForVersion)
}

func (h *Handler) ListForDocument(c *gin.Context) {
	userID := c.GetInt64("user_id")

	docID, ok := h.pathID(c, "documentId")
	if !ok {
		return
	}

	list, err := h.service.ListForDocument(c.Request.Context(), docID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListForVersion(c *gin.Context) {
	userID := c.GetInt64("user_id")

	docID, ok := h.pathID(c, "documentId")
	if !ok {
		return
	}
	versionID, ok := h.pathID(c, "versionId")
	if !ok {
		return
	}

	list, err := h.service.ListForVersion(c.Request.Context(), docID, versionID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, list)
}

func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, documents.ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this document")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to list comments")
	}
}
