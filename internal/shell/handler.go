package shell

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/sessions"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/richtext"
)

// Handler serves the editor page and its form actions. Every action
// redirects back to the page; failures show up as notifications there.
type Handler struct {
	Svc *sessions.Service
	// PDF shows the PDF download button.
	PDF bool
}

func NewHandler(svc *sessions.Service, pdf bool) *Handler {
	return &Handler{Svc: svc, PDF: pdf}
}

// RegisterRoutes attaches the page routes; rg is expected to be /app.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.start)
	rg.GET("/:id", h.show)
	rg.POST("/:id/tab", h.setTab)
	rg.POST("/:id/template", h.selectTemplate)
	rg.POST("/:id/preview", h.preview)
	rg.POST("/:id/personal", h.savePersonal)
	rg.POST("/:id/sections/:section", h.addEntry)
	rg.POST("/:id/sections/:section/:index", h.saveEntry)
	rg.POST("/:id/sections/:section/:index/move", h.moveEntry)
	rg.POST("/:id/sections/:section/:index/remove", h.removeEntry)
	rg.POST("/:id/format", h.format)
	rg.POST("/:id/export", h.export)
	rg.POST("/:id/notifications/:nid/dismiss", h.dismiss)
}

func (h *Handler) start(c *gin.Context) {
	sess, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), sessions.CreateInput{
		Empty:    c.Query("empty") == "1",
		Template: c.Query("template"),
	})
	if err != nil {
		sessions.WriteError(c, err, "failed to create session")
		return
	}
	c.Redirect(http.StatusSeeOther, pageURL(c, sess.ID))
}

func (h *Handler) show(c *gin.Context) {
	c.Set(middleware.SessionIDKey, c.Param("id"))
	ctx := c.Request.Context()
	ownerID := middleware.UserIDFromContext(c)

	markup, sess, err := h.Svc.Render(ctx, ownerID, c.Param("id"))
	if err != nil {
		sessions.WriteError(c, err, "failed to render page")
		return
	}
	c.Set(middleware.TemplateIDKey, string(sess.Template))
	notes, err := h.Svc.Notifications(ctx, ownerID, sess.ID)
	if err != nil {
		sessions.WriteError(c, err, "failed to render page")
		return
	}
	body, err := renderPage(sess, markup, notes, guestQuery(c), h.PDF)
	if err != nil {
		telemetry.Error("shell.render_failed", map[string]any{"session_id": sess.ID, "error": err})
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to render page", nil)
		return
	}
	respond.HTML(c, http.StatusOK, string(body))
}

func (h *Handler) setTab(c *gin.Context) {
	_, err := h.Svc.SetTab(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.PostForm("tab"))
	h.back(c, err)
}

func (h *Handler) selectTemplate(c *gin.Context) {
	_, err := h.Svc.SelectTemplate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.PostForm("templateId"))
	h.back(c, err)
}

func (h *Handler) preview(c *gin.Context) {
	delta, _ := strconv.Atoi(c.PostForm("delta"))
	_, err := h.Svc.UpdatePreview(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), sessions.PreviewAction(c.PostForm("action")), delta)
	h.back(c, err)
}

func (h *Handler) savePersonal(c *gin.Context) {
	values := map[string]string{}
	for _, f := range model.PersonalFields {
		if v, ok := c.GetPostForm(string(f)); ok {
			values[string(f)] = v
		}
	}
	_, err := h.Svc.UpdatePersonal(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), values)
	h.back(c, err)
}

func (h *Handler) addEntry(c *gin.Context) {
	_, err := h.Svc.AddEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"))
	h.back(c, err)
}

func (h *Handler) saveEntry(c *gin.Context) {
	index, ok := formIndex(c, c.Param("index"))
	if !ok {
		return
	}
	sec, err := model.ParseSection(c.Param("section"))
	if err != nil {
		sessions.WriteError(c, err, "failed to save entry")
		return
	}
	values := map[string]string{}
	names := []string{sessions.ToolsField}
	for _, fd := range model.EntryFields(sec) {
		names = append(names, fd.Name)
	}
	for _, name := range names {
		if v, ok := c.GetPostForm(name); ok {
			values[name] = v
		}
	}
	_, err = h.Svc.UpdateEntryFields(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), string(sec), index, values)
	h.back(c, err)
}

func (h *Handler) moveEntry(c *gin.Context) {
	from, ok := formIndex(c, c.Param("index"))
	if !ok {
		return
	}
	to, ok := formIndex(c, c.PostForm("to"))
	if !ok {
		return
	}
	_, err := h.Svc.MoveEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"), from, to)
	h.back(c, err)
}

func (h *Handler) removeEntry(c *gin.Context) {
	index, ok := formIndex(c, c.Param("index"))
	if !ok {
		return
	}
	_, err := h.Svc.RemoveEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("section"), index)
	h.back(c, err)
}

func (h *Handler) format(c *gin.Context) {
	index, _ := strconv.Atoi(c.PostForm("index"))
	start, _ := strconv.Atoi(c.PostForm("start"))
	end, _ := strconv.Atoi(c.PostForm("end"))
	_, _, err := h.Svc.FormatField(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), sessions.FormatInput{
		Section:   c.PostForm("section"),
		Index:     index,
		Field:     c.PostForm("field"),
		Command:   c.PostForm("command"),
		Selection: richtext.Range{Start: start, End: end},
	})
	h.back(c, err)
}

func (h *Handler) export(c *gin.Context) {
	format, err := export.ParseFormat(c.PostForm("format"))
	if err != nil {
		sessions.WriteError(c, err, "failed to export")
		return
	}
	result, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), format)
	if err != nil {
		h.back(c, err)
		return
	}
	sessions.WriteArtifact(c, result)
}

func (h *Handler) dismiss(c *gin.Context) {
	err := h.Svc.DismissNotification(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("nid"))
	if errors.Is(err, sessions.ErrNotFound) {
		err = nil
	}
	h.back(c, err)
}

// back redirects to the page unless the session itself is unreachable.
func (h *Handler) back(c *gin.Context, err error) {
	if errors.Is(err, sessions.ErrNotFound) || errors.Is(err, sessions.ErrForbidden) {
		sessions.WriteError(c, err, "")
		return
	}
	c.Redirect(http.StatusSeeOther, pageURL(c, c.Param("id")))
}

func formIndex(c *gin.Context, raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "index must be an integer", nil)
		return 0, false
	}
	return n, true
}

// guestQuery carries a query-string identity across redirects and forms.
func guestQuery(c *gin.Context) string {
	guest := strings.TrimSpace(c.Query("guest"))
	if guest == "" {
		return ""
	}
	return "?" + url.Values{"guest": {guest}}.Encode()
}

func pageURL(c *gin.Context, sessionID string) string {
	return "/app/" + url.PathEscape(sessionID) + guestQuery(c)
}
