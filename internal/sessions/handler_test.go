package sessions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newTestService(t, fakePrinter{})
	r := gin.New()
	api := r.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return r, svc
}

func do(r *gin.Engine, method, path, guest string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if guest != "" {
		req.Header.Set("X-Guest-Id", guest)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func createSession(t *testing.T, r *gin.Engine, body any) SessionResponse {
	t.Helper()
	rec := do(r, http.MethodPost, "/api/v1/sessions", "a", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	return decode[SessionResponse](t, rec)
}

func TestCreateSessionRequiresIdentity(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(r, http.MethodPost, "/api/v1/sessions", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionEditingFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	sess := createSession(t, r, nil)
	if sess.Template.ID != "modern" || sess.ActiveTab != TabTemplates || sess.Document.Personal.FullName != "Jordan Lee" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	base := "/api/v1/sessions/" + sess.SessionID

	rec := do(r, http.MethodPut, base+"/template", "a", map[string]string{"templateId": "minimalist"})
	if rec.Code != http.StatusOK {
		t.Fatalf("template: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[SessionResponse](t, rec); got.Template.ID != "minimalist" {
		t.Fatalf("template not selected: %+v", got.Template)
	}

	rec = do(r, http.MethodPut, base+"/personal/fullName", "a", map[string]string{"value": "Sam Rivera"})
	if rec.Code != http.StatusOK {
		t.Fatalf("personal: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, base+"/sections/certifications", "a", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	added := decode[SessionResponse](t, rec)
	last := len(added.Document.Certifications) - 1

	rec = do(r, http.MethodPut, base+"/sections/certifications/"+strconv.Itoa(last), "a", map[string]string{"field": "name", "value": "CKA"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, base+"/render", "a", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("render: %d %s", rec.Code, rec.Body.String())
	}
	rendered := decode[RenderResponse](t, rec)
	if rendered.TemplateID != "minimalist" || !strings.Contains(rendered.HTML, "Sam Rivera") || !strings.Contains(rendered.HTML, "CKA") {
		t.Fatalf("unexpected render: %s", rendered.HTML)
	}
	if rendered.Preview.Style != "transform: scale(1.00); transform-origin: top center;" {
		t.Fatalf("unexpected style %q", rendered.Preview.Style)
	}
}

func TestEntryIndexErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	sess := createSession(t, r, map[string]any{"empty": true})
	base := "/api/v1/sessions/" + sess.SessionID

	rec := do(r, http.MethodDelete, base+"/sections/skills/0", "a", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}
	if body := decode[respond.ErrorResponse](t, rec); body.Error.Code != respond.CodeIndexOutOfRange {
		t.Fatalf("expected index_out_of_range, got %+v", body)
	}
	rec = do(r, http.MethodDelete, base+"/sections/skills/first", "a", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec = do(r, http.MethodPost, base+"/sections/hobbies", "a", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decode[respond.ErrorResponse](t, rec); body.Error.Code != respond.CodeValidation {
		t.Fatalf("expected validation_error, got %+v", body)
	}

	rec = do(r, http.MethodGet, base+"/notifications", "a", nil)
	notes := decode[[]map[string]any](t, rec)
	if len(notes) != 2 {
		t.Fatalf("expected two notifications, got %+v", notes)
	}
	id, _ := notes[0]["id"].(string)
	rec = do(r, http.MethodDelete, base+"/notifications/"+id, "a", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("dismiss: %d", rec.Code)
	}
	rec = do(r, http.MethodDelete, base+"/notifications/"+id, "a", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second dismiss: %d", rec.Code)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	sess := createSession(t, r, nil)
	path := "/api/v1/sessions/" + sess.SessionID + "/preview"

	rec := do(r, http.MethodPost, path, "a", map[string]any{"action": "zoomOut"})
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", rec.Code, rec.Body.String())
	}
	got := decode[PreviewResponse](t, rec)
	if got.Scale != 90 || got.Style != "transform: scale(0.90); transform-origin: top center;" {
		t.Fatalf("unexpected preview %+v", got)
	}
	rec = do(r, http.MethodPost, path, "a", map[string]any{"action": "wobble"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExportEndpointReturnsAttachment(t *testing.T) {
	r, _ := newTestRouter(t)
	sess := createSession(t, r, map[string]any{"templateId": "executive"})

	rec := do(r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/export", "a", map[string]string{"format": "pdf"})
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=jordan-lee-executive.pdf" {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if rec.Header().Get("X-Export-Id") == "" {
		t.Fatalf("expected export id header")
	}

	rec = do(r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/export", "a", map[string]string{"format": "docx"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOtherVisitorGetsNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	sess := createSession(t, r, nil)

	rec := do(r, http.MethodGet, "/api/v1/sessions/"+sess.SessionID, "b", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decode[respond.ErrorResponse](t, rec); body.Error.Code != respond.CodeNotFound || body.Error.Message != "session not found" {
		t.Fatalf("expected hidden not_found, got %+v", body)
	}
	rec = do(r, http.MethodGet, "/api/v1/sessions", "b", nil)
	if got := decode[[]SessionSummary](t, rec); len(got) != 0 {
		t.Fatalf("expected no sessions, got %+v", got)
	}
}

func TestDocumentImportAndDownload(t *testing.T) {
	r, _ := newTestRouter(t)
	sess := createSession(t, r, map[string]any{"empty": true})
	base := "/api/v1/sessions/" + sess.SessionID + "/document"

	req := httptest.NewRequest(http.MethodPut, base, strings.NewReader(`{"personal":{"fullName":"Ada"},"projects":[{"name":"Engine"}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "a")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: %d %s", rec.Code, rec.Body.String())
	}
	got := decode[SessionResponse](t, rec)
	if got.Document.Personal.FullName != "Ada" || got.Document.Projects[0].ID == "" {
		t.Fatalf("unexpected import: %+v", got.Document)
	}

	rec = do(r, http.MethodGet, base+"?format=yaml", "a", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "fullName: Ada") {
		t.Fatalf("download: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRichTextApplyIsStateless(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(r, http.MethodPost, "/api/v1/richtext/apply", "a", map[string]any{
		"html":      "abcdef",
		"selection": map[string]int{"start": 2, "end": 4},
		"command":   "underline",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("apply: %d %s", rec.Code, rec.Body.String())
	}
	var got struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.HTML != "ab<u>cd</u>ef" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestTemplatesGallery(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(r, http.MethodGet, "/api/v1/templates", "a", nil)
	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || len(got) != 5 {
		t.Fatalf("unexpected gallery %s", rec.Body.String())
	}
	if got[0]["id"] != "modern" {
		t.Fatalf("expected modern first, got %v", got[0]["id"])
	}
}
