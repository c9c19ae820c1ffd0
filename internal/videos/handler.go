package videos

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-rec/backend/internal/middleware"
	"github.com/mini-rec/backend/pkg/response"
)

// Handler handles recording HTTP endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a recordings handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the recording routes on an authenticated group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/videos", h.List)
	g.POST("/videos/upload", h.Upload)
	g.PATCH("/videos/:id", h.Rename)
	g.DELETE("/videos/:id", h.Delete)
}

type renameIn struct {
	Filename string `json:"filename" binding:"required"`
}

// List handles GET /videos.
func (h *Handler) List(c *gin.Context) {
	owner := c.MustGet(middleware.ContextUserID).(string)
	views, err := h.service.List(c.Request.Context(), owner)
	if err != nil {
		h.fail(c, err, "list recordings failed")
		return
	}
	response.OK(c, views)
}

// Upload handles POST /videos/upload (multipart: filename + file).
func (h *Handler) Upload(c *gin.Context) {
	owner := c.MustGet(middleware.ContextUserID).(string)

	filename := c.PostForm("filename")
	if filename == "" {
		response.BadRequest(c, "filename is required")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "file is unreadable")
		return
	}
	defer f.Close()

	view, err := h.service.Upload(c.Request.Context(), owner, filename, contentType, f, fileHeader.Size)
	if err != nil {
		h.fail(c, err, "upload recording failed")
		return
	}
	response.Created(c, view)
}

// Rename handles PATCH /videos/:id.
func (h *Handler) Rename(c *gin.Context) {
	owner := c.MustGet(middleware.ContextUserID).(string)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "recording not found")
		return
	}
	var body renameIn
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "filename is required")
		return
	}
	view, err := h.service.Rename(c.Request.Context(), owner, id, body.Filename)
	if err != nil {
		h.fail(c, err, "rename recording failed")
		return
	}
	response.OK(c, view)
}

// Delete handles DELETE /videos/:id.
func (h *Handler) Delete(c *gin.Context) {
	owner := c.MustGet(middleware.ContextUserID).(string)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "recording not found")
		return
	}
	if err := h.service.Delete(c.Request.Context(), owner, id); err != nil {
		h.fail(c, err, "delete recording failed")
		return
	}
	response.NoContent(c)
}

// fail maps a service error to its HTTP status. Internal detail stays in
// the log; the caller gets the taxonomy kind only.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "recording not found")
	case errors.Is(err, ErrUnsupportedMediaType):
		response.UnsupportedMedia(c, "unsupported content type")
	case errors.Is(err, ErrUpstreamUnavailable):
		h.logger.Error(msg, zap.Error(err))
		response.ServiceUnavailable(c, "upstream unavailable")
	case errors.Is(err, ErrStorageWrite), errors.Is(err, ErrStorageDelete):
		h.logger.Error(msg, zap.Error(err))
		response.BadGateway(c, "storage unavailable")
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Internal(c, msg)
	}
}
