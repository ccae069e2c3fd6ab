package sessions

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/richtext"
	"resume-builder/resume/store"
)

const maxImportBytes = 1 << 20

// Handler wires HTTP handlers to the sessions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches editor routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)
	rg.POST("/richtext/apply", h.applyRichText)

	rg.POST("/sessions", h.create)
	rg.GET("/sessions", h.list)

	s := rg.Group("/sessions/:id", tagSession)
	s.GET("", h.get)
	s.DELETE("", h.delete)
	s.PUT("/personal/:field", h.setPersonal)
	s.POST("/sections/:section", h.addEntry)
	s.PUT("/sections/:section/:index", h.updateEntry)
	s.DELETE("/sections/:section/:index", h.removeEntry)
	s.POST("/sections/:section/:index/move", h.moveEntry)
	s.PUT("/skills/:index/tools", h.setSkillTools)
	s.POST("/format", h.formatField)
	s.PUT("/template", h.selectTemplate)
	s.PUT("/tab", h.setTab)
	s.POST("/preview", h.updatePreview)
	s.GET("/render", h.render)
	s.POST("/export", h.export)
	s.GET("/document", h.downloadDocument)
	s.PUT("/document", h.importDocument)
	s.GET("/notifications", h.notifications)
	s.DELETE("/notifications/:nid", h.dismissNotification)
}

func tagSession(c *gin.Context) {
	c.Set(middleware.SessionIDKey, c.Param("id"))
	c.Next()
}

func (h *Handler) templates(c *gin.Context) {
	respond.OK(c, render.Gallery())
}

func (h *Handler) applyRichText(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "command is required", nil)
		return
	}
	c.Set(middleware.OperationKey, "richtext."+req.Command)
	cmd, err := richtext.ParseCommand(req.Command)
	if err != nil {
		WriteError(c, err, "failed to apply command")
		return
	}
	state, err := richtext.Apply(richtext.State{HTML: req.HTML, Selection: req.Selection}, cmd)
	if err != nil {
		WriteError(c, err, "failed to apply command")
		return
	}
	respond.OK(c, state)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
			return
		}
	}
	sess, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), CreateInput{Empty: req.Empty, Template: req.Template})
	if err != nil {
		WriteError(c, err, "failed to create session")
		return
	}
	c.Set(middleware.SessionIDKey, sess.ID)
	respond.JSON(c, http.StatusCreated, h.response(sess))
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		WriteError(c, err, "failed to list sessions")
		return
	}
	resp := make([]SessionSummary, 0, len(items))
	for _, s := range items {
		resp = append(resp, ToSummary(s))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	sess, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	h.reply(c, sess, err, "failed to fetch session")
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		WriteError(c, err, "failed to delete session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setPersonal(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	c.Set(middleware.OperationKey, "personal.set")
	sess, err := h.Svc.SetPersonalField(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("field"), req.Value)
	h.reply(c, sess, err, "failed to update field")
}

func (h *Handler) addEntry(c *gin.Context) {
	c.Set(middleware.OperationKey, "entry.add")
	sess, err := h.Svc.AddEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"))
	if err != nil {
		WriteError(c, err, "failed to add entry")
		return
	}
	respond.JSON(c, http.StatusCreated, h.response(sess))
}

func (h *Handler) updateEntry(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	var req entryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "field is required", nil)
		return
	}
	c.Set(middleware.OperationKey, "entry.update")
	sess, err := h.Svc.UpdateEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"), index, req.Field, req.Value)
	h.reply(c, sess, err, "failed to update entry")
}

func (h *Handler) removeEntry(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	c.Set(middleware.OperationKey, "entry.remove")
	sess, err := h.Svc.RemoveEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"), index)
	h.reply(c, sess, err, "failed to remove entry")
}

func (h *Handler) moveEntry(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "to is required", nil)
		return
	}
	c.Set(middleware.OperationKey, "entry.move")
	sess, err := h.Svc.MoveEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"), index, *req.To)
	h.reply(c, sess, err, "failed to move entry")
}

func (h *Handler) setSkillTools(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	var req toolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	c.Set(middleware.OperationKey, "skills.tools")
	sess, err := h.Svc.SetSkillTools(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), index, req.Text)
	h.reply(c, sess, err, "failed to update tools")
}

func (h *Handler) formatField(c *gin.Context) {
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "section, field and command are required", nil)
		return
	}
	c.Set(middleware.OperationKey, "richtext."+req.Command)
	sess, state, err := h.Svc.FormatField(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), FormatInput{
		Section:   req.Section,
		Index:     req.Index,
		Field:     req.Field,
		Command:   req.Command,
		Selection: req.Selection,
	})
	if err != nil {
		WriteError(c, err, "failed to apply command")
		return
	}
	respond.OK(c, FormatResponse{State: state, Session: h.response(sess)})
}

func (h *Handler) selectTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "templateId is required", nil)
		return
	}
	c.Set(middleware.OperationKey, "template.select")
	sess, err := h.Svc.SelectTemplate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.TemplateID)
	if err == nil {
		c.Set(middleware.TemplateIDKey, string(sess.Template))
	}
	h.reply(c, sess, err, "failed to select template")
}

func (h *Handler) setTab(c *gin.Context) {
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "tab is required", nil)
		return
	}
	sess, err := h.Svc.SetTab(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.Tab)
	h.reply(c, sess, err, "failed to switch tab")
}

func (h *Handler) updatePreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "action is required", nil)
		return
	}
	c.Set(middleware.OperationKey, "preview."+req.Action)
	sess, err := h.Svc.UpdatePreview(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), PreviewAction(req.Action), req.Delta)
	if err != nil {
		WriteError(c, err, "failed to update preview")
		return
	}
	respond.OK(c, toPreview(sess.Preview))
}

func (h *Handler) render(c *gin.Context) {
	markup, sess, err := h.Svc.Render(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		WriteError(c, err, "failed to render preview")
		return
	}
	c.Set(middleware.TemplateIDKey, string(sess.Template))
	respond.OK(c, RenderResponse{
		TemplateID: sess.Template,
		HTML:       markup,
		Preview:    toPreview(sess.Preview),
	})
}

func (h *Handler) export(c *gin.Context) {
	var req exportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
			return
		}
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		WriteError(c, err, "failed to export")
		return
	}
	c.Set(middleware.OperationKey, "export."+string(format))

	result, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), format)
	if err != nil {
		WriteError(c, err, "failed to export")
		return
	}
	WriteArtifact(c, result)
}

// WriteArtifact sends an export as a download.
func WriteArtifact(c *gin.Context, result ExportResult) {
	if result.Record != nil {
		c.Header("X-Export-Id", result.Record.ID)
	}
	respond.Download(c, result.FileName, result.Artifact.MimeType, result.Artifact.Body)
}

func (h *Handler) downloadDocument(c *gin.Context) {
	format, err := ParseDocumentFormat(c.Query("format"))
	if err != nil {
		WriteError(c, err, "failed to encode document")
		return
	}
	body, err := h.Svc.DocumentBytes(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), format)
	if err != nil {
		WriteError(c, err, "failed to encode document")
		return
	}
	respond.Download(c, "resume."+string(format), format.ContentType(), body)
}

func (h *Handler) importDocument(c *gin.Context) {
	raw := c.Query("format")
	if raw == "" {
		raw = formatFromContentType(c.ContentType())
	}
	format, err := ParseDocumentFormat(raw)
	if err != nil {
		WriteError(c, err, "failed to import document")
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "failed to read body", nil)
		return
	}
	if len(body) > maxImportBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, "document exceeds 1 MiB", nil)
		return
	}
	c.Set(middleware.OperationKey, "document.import")
	sess, err := h.Svc.ImportDocument(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), format, body)
	h.reply(c, sess, err, "failed to import document")
}

func (h *Handler) notifications(c *gin.Context) {
	items, err := h.Svc.Notifications(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		WriteError(c, err, "failed to list notifications")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) dismissNotification(c *gin.Context) {
	err := h.Svc.DismissNotification(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("nid"))
	if err != nil {
		WriteError(c, err, "failed to dismiss notification")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) reply(c *gin.Context, sess Session, err error, fallback string) {
	if err != nil {
		WriteError(c, err, fallback)
		return
	}
	respond.OK(c, h.response(sess))
}

func (h *Handler) response(sess Session) SessionResponse {
	return ToResponse(sess, h.Svc.now())
}

func pathIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "index must be an integer", nil)
		return 0, false
	}
	return index, true
}

func formatFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	if mt == "application/json" {
		return "json"
	}
	return ""
}

// errorMappings covers every sentinel the service returns. Sessions of other
// visitors are reported as missing.
var errorMappings = []respond.Mapping{
	respond.Hide(http.StatusNotFound, respond.CodeNotFound, "session not found", ErrNotFound, ErrForbidden),
	respond.Map(http.StatusUnprocessableEntity, respond.CodeIndexOutOfRange, store.ErrIndexOutOfRange),
	respond.Map(http.StatusBadRequest, respond.CodeValidation,
		ErrInvalidInput,
		model.ErrUnknownField,
		model.ErrUnknownSection,
		richtext.ErrUnknownCommand,
		export.ErrUnknownFormat,
	),
	respond.Hide(http.StatusServiceUnavailable, respond.CodePrintUnavailable, "PDF export is unavailable", export.ErrPrintUnavailable),
	respond.Hide(http.StatusConflict, respond.CodeNothingToExport, "nothing to export", export.ErrMissingTarget),
}

// WriteError maps service errors to responses.
func WriteError(c *gin.Context, err error, fallback string) {
	respond.FromError(c, err, fallback, errorMappings...)
}
