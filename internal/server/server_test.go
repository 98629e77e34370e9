package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-analyzer/internal/analysis"
)

func newTestRouter(t *testing.T, log *zap.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := analysis.New(analysis.Config{}, analysis.Deps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return NewRouter(RouterDeps{Analyzer: svc, Logger: log})
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRoot(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}
}

func TestAnalyze(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "resume.txt", "JOHN SMITH\njohn@example.com\nSkills: Python, Docker, Scrum"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["filename"] != "resume.txt" {
		t.Fatalf("unexpected filename: %v", body["filename"])
	}
	if !strings.HasPrefix(body["raw_text"].(string), "JOHN SMITH") {
		t.Fatalf("unexpected raw text: %v", body["raw_text"])
	}

	parsed := body["parsed_data"].(map[string]any)
	if parsed["name"] != "John Smith" || parsed["email"] != "john@example.com" {
		t.Fatalf("unexpected parsed data: %v", parsed)
	}
	if !reflect.DeepEqual(parsed["skills"], []any{"docker", "python", "scrum"}) {
		t.Fatalf("unexpected skills: %v", parsed["skills"])
	}

	categories := body["skill_analysis"].(map[string]any)["categories"].(map[string]any)
	if !reflect.DeepEqual(categories["Technical"], []any{"docker", "python"}) {
		t.Fatalf("unexpected categories: %v", categories)
	}

	entities := body["key_entities"].(map[string]any)
	for _, key := range []string{"organizations", "persons", "locations"} {
		if list, ok := entities[key].([]any); !ok || len(list) != 0 {
			t.Fatalf("expected empty %s list, got %v", key, entities[key])
		}
	}

	if _, ok := body["warnings"]; !ok {
		t.Fatalf("expected warnings about the missing recognizer")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{name: "unsupported type", req: uploadRequest(t, "resume.png", "python"), status: http.StatusBadRequest},
		{name: "empty text", req: uploadRequest(t, "resume.txt", "   \n"), status: http.StatusUnprocessableEntity},
		{name: "broken pdf", req: uploadRequest(t, "resume.pdf", "not a pdf"), status: http.StatusUnprocessableEntity},
		{name: "missing file", req: httptest.NewRequest(http.MethodPost, "/analyze/", nil), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if decode(t, rec)["detail"] == "" {
				t.Fatalf("expected an error detail")
			}
		})
	}
}

func TestMatch(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := `{"resume_skills":["Python","docker"],"job_description_text":"Requirements:\npython\nsql\nNice to have:\ndocker"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match/", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["match_score"] != float64(60) {
		t.Fatalf("expected score 60, got %v", body["match_score"])
	}
	if !reflect.DeepEqual(body["matched_keywords"], []any{"docker", "python"}) {
		t.Fatalf("unexpected matched keywords: %v", body["matched_keywords"])
	}
	if !reflect.DeepEqual(body["missing_keywords"], []any{"sql"}) {
		t.Fatalf("unexpected missing keywords: %v", body["missing_keywords"])
	}
}

func TestMatchInvalidBody(t *testing.T) {
	router := newTestRouter(t, nil)

	for name, payload := range map[string]string{
		"not json":          `python`,
		"missing skills":    `{"job_description_text":"python"}`,
		"missing jd":        `{"resume_skills":["python"]}`,
		"wrong skills type": `{"resume_skills":"python","job_description_text":"python"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match/", strings.NewReader(payload)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMatchEmptyJobDescription(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match/", strings.NewReader(`{"resume_skills":[],"job_description_text":""}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["match_score"] != float64(0) {
		t.Fatalf("expected score 0: %s", rec.Body.String())
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name   string
		origin string
		status int
		allow  string
	}{
		{name: "allowed origin", origin: "http://localhost:5173", status: http.StatusNoContent, allow: "http://localhost:5173"},
		{name: "foreign origin", origin: "http://evil.example", status: http.StatusForbidden},
		{name: "no origin is not a cors request", origin: "", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/match/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.allow {
				t.Fatalf("unexpected allow origin header: %q", got)
			}
		})
	}
}

func TestRequestIDIsReusedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := newTestRouter(t, zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-42")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}

	entries := logs.FilterMessage("request served").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "req-42" {
		t.Fatalf("unexpected log context: %v", entries[0].ContextMap())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NewServeMux(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestAnalyzeRejectsOversizedUploads(t *testing.T) {
	router := newTestRouter(t, nil)
	content := strings.Repeat("a", maxUploadSize+maxFormOverhead+1)

	t.Run("declared length", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "resume.txt", content))

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", rec.Code)
		}
	})

	t.Run("unknown length", func(t *testing.T) {
		req := uploadRequest(t, "resume.txt", content)
		req.Body = io.NopCloser(io.MultiReader(req.Body))
		req.ContentLength = -1

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", rec.Code)
		}
	})
}

func TestUnsupportedTypeDetail(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "resume.odt", "python"))

	detail, _ := decode(t, rec)["detail"].(string)
	for _, ext := range []string{".pdf", ".docx", ".txt"} {
		if !strings.Contains(detail, ext) {
			t.Fatalf("expected %q in detail %q", ext, detail)
		}
	}
}
