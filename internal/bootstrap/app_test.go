package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/shared/config"
)

func newApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		SampleData:      true,
		RateLimitRPS:    100,
		RateLimitBurst:  100,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "12345")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBuildWithoutPDFExport(t *testing.T) {
	app := newApp(t)
	if app.Printer != nil || app.DB != nil {
		t.Fatalf("expected no printer and no database, got %v %v", app.Printer, app.DB)
	}
}

func TestPublicRoutes(t *testing.T) {
	app := newApp(t)
	for _, path := range []string{"/api/v1/health", "/api/v1/templates", "/metrics"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}

func TestExportShowsUpInHistory(t *testing.T) {
	app := newApp(t)
	r := app.Router

	rec := call(r, http.MethodPost, "/api/v1/sessions", map[string]string{"templateId": "creative"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var sess struct {
		SessionID string `json:"sessionId"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &sess)

	rec = call(r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/export", map[string]string{"format": "html"})
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	exportID := rec.Header().Get("X-Export-Id")
	if exportID == "" {
		t.Fatalf("missing export id")
	}
	if !strings.Contains(rec.Body.String(), "Jordan Lee") {
		t.Fatalf("printable document missing resume content")
	}

	rec = call(r, http.MethodGet, "/api/v1/exports", nil)
	var history []struct {
		ExportID    string `json:"exportId"`
		TemplateID  string `json:"templateId"`
		DownloadURL string `json:"downloadUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil || len(history) != 1 {
		t.Fatalf("unexpected history %s", rec.Body.String())
	}
	if history[0].ExportID != exportID || history[0].TemplateID != "creative" {
		t.Fatalf("unexpected record %+v", history[0])
	}

	rec = call(r, http.MethodGet, history[0].DownloadURL, nil)
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK || !strings.Contains(string(body), "<!DOCTYPE html>") {
		t.Fatalf("download: %d", rec.Code)
	}

	rec = call(r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/export", map[string]string{"format": "pdf"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for pdf without a printer, got %d", rec.Code)
	}
}

func TestShellPageThroughRouter(t *testing.T) {
	app := newApp(t)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app?guest=12345", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	rec2 := httptest.NewRecorder()
	app.Router.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil))
	if rec2.Code != http.StatusOK || !strings.Contains(rec2.Body.String(), "Resume Builder") {
		t.Fatalf("page: %d", rec2.Code)
	}
}
