package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meezumi/content-review-platform/internal/domain"
	"github.com/meezumi/content-review-platform/internal/modules/enrichment"
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
	docs := rg.Group("/documents")
	{
		docs.POST("/upload", h.Upload)
		docs.GET("/mine", h.ListMine)
		docs.GET("/shared", h.ListShared)
		docs.GET("/:id", h.Get)
		docs.POST("/:id/version", h.AppendVersion)
		docs.POST("/:id/regenerate-summary", h.RegenerateSummary)
		docs.GET("/:id/sentiment", h.Sentiment)
		docs.PUT("/:id/status", h.UpdateStatus)
		docs.PUT("/:id/request-changes", h.RequestChanges)
		docs.POST("/:id/collaborator", h.AddCollaborator)
	}
}

func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetInt64("user_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "A file is required")
		return
	}
	category := c.PostForm("category")

	doc, err := h.service.CreateDocument(c.Request.Context(), userID, fileHeader, category)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, doc)
}

func (h *Handler) AppendVersion(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "A file is required")
		return
	}

	doc, err := h.service.AppendVersion(c.Request.Context(), docID, userID, fileHeader)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, doc)
}

func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), docID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, doc)
}

func (h *Handler) ListMine(c *gin.Context) {
	docs, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

func (h *Handler) ListShared(c *gin.Context) {
	docs, err := h.service.ListShared(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	doc, err := h.service.SetStatus(c.Request.Context(), docID, userID, domain.DocumentStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, doc)
}

func (h *Handler) RequestChanges(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	doc, err := h.service.RequestChanges(c.Request.Context(), docID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, doc)
}

func (h *Handler) AddCollaborator(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "A valid email is required")
		return
	}

	user, err := h.service.AddCollaborator(c.Request.Context(), docID, userID, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *Handler) RegenerateSummary(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	// Body is optional: absent or empty means the active version.
	var req RegenerateSummaryRequest
	_ = c.ShouldBindJSON(&req)

	summary, err := h.service.RegenerateSummary(c.Request.Context(), docID, userID, req.VersionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

func (h *Handler) Sentiment(c *gin.Context) {
	userID := c.GetInt64("user_id")
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	sentiment, err := h.service.Sentiment(c.Request.Context(), docID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sentiment)
}

func (h *Handler) docID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID")
		return 0, false
	}
	return id, true
}

// respondError maps service errors to distinct client-visible statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, ErrVersionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Version not found")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view this document")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status value")
	case errors.Is(err, ErrAlreadyCollaborator):
		response.Error(c, http.StatusConflict, "ALREADY_COLLABORATOR", "User is already a collaborator")
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
	case errors.Is(err, enrichment.ErrAIUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI service is unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server Error")
	}
}
