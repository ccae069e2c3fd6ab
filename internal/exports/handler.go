package exports

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/export"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/exports", h.list)
	rg.GET("/exports/:id", h.get)
	rg.GET("/exports/:id/download", h.download)
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	limit := queryInt(c, "limit", defaultListLimit)
	offset := queryInt(c, "offset", 0)

	items, err := h.Svc.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list exports")
		return
	}
	resp := make([]ExportResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, ToResponse(e))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch export")
		return
	}
	respond.OK(c, ToResponse(e))
}

func (h *Handler) download(c *gin.Context) {
	e, rc, err := h.Svc.Open(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to open export")
		return
	}
	defer rc.Close()

	name := FileName(e.Title, e.TemplateID, export.Format(e.Format))
	respond.Attachment(c, name)
	c.Header("Content-Type", e.MimeType)
	c.Header("Content-Length", strconv.FormatInt(e.SizeBytes, 10))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// Owners never learn whether another owner's export exists.
var errorMappings = []respond.Mapping{
	respond.Hide(http.StatusNotFound, respond.CodeNotFound, "export not found", ErrNotFound, ErrForbidden),
	respond.Map(http.StatusBadRequest, respond.CodeValidation, ErrInvalidInput),
}

func writeError(c *gin.Context, err error, fallback string) {
	respond.FromError(c, err, fallback, errorMappings...)
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
