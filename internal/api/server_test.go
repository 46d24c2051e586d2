package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rehierl/html-outliner/internal/config"
	"github.com/rehierl/html-outliner/internal/dom"
	"github.com/rehierl/html-outliner/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         testKey,
		WorkerCount:    2,
		MaxQueueSize:   8,
		MaxUploadBytes: 1 << 20,
		DefaultRoot:    dom.DefaultRoot,
		MaxTitleLen:    120,
		JobTTL:         time.Hour,
		StatsWindow:    time.Hour,
	}
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func do(t *testing.T, s *Server, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const page = `<title>Guide</title><h1>Guide</h1><h2>Install</h2><article id="a"><h1>Aside</h1></article>`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/build", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid api key", decode(t, rec)["error"])
}

func TestOutline_RawBody(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/outline?filename=guide.html", strings.NewReader(page), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Outline struct {
			Title    string `json:"title"`
			Root     string `json:"root"`
			Sections []struct {
				Title    string `json:"title"`
				Sections []struct {
					Title string `json:"title"`
				} `json:"sections"`
			} `json:"sections"`
		} `json:"outline"`
		TOC      []map[string]any `json:"toc"`
		Findings []map[string]any `json:"findings"`
		Root     string           `json:"root"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Guide", res.Outline.Title)
	assert.Equal(t, "body", res.Outline.Root)
	assert.Equal(t, "//body", res.Root)
	require.Len(t, res.Outline.Sections, 1)
	require.Len(t, res.Outline.Sections[0].Sections, 2)
	assert.Equal(t, "Aside", res.Outline.Sections[0].Sections[1].Title)
	assert.Len(t, res.TOC, 3)
	assert.NotNil(t, res.Findings)
}

func TestOutline_Multipart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.md")
	require.NoError(t, err)
	_, err = fw.Write([]byte("# Notes\n\n## One\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("title", "My Notes"))
	require.NoError(t, mw.Close())

	rec := do(t, s, http.MethodPost, "/api/outline", &buf, map[string]string{"Content-Type": mw.FormDataContentType()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "My Notes", out["outline"].(map[string]any)["title"])
}

func TestOutline_TextRender(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/outline?filename=guide.html&render=text", strings.NewReader(page), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Guide\n  h1 Guide\n    h2 Install\n    h1 Aside\n", rec.Body.String())
}

func TestOutline_RootAndOptions(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, `/api/outline?filename=guide.html&root=//article`, strings.NewReader(page), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "article", decode(t, rec)["outline"].(map[string]any)["root"])

	hidden := `<h1>A</h1><div hidden><h2>B</h2></div>`
	rec = do(t, s, http.MethodPost, "/api/outline?filename=a.html&ignore-hidden=false", strings.NewReader(hidden), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sections := decode(t, rec)["outline"].(map[string]any)["sections"].([]any)
	assert.Len(t, sections[0].(map[string]any)["sections"], 1)
}

func TestOutline_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unsupported type", "/api/outline?filename=a.pdf", "x", http.StatusBadRequest, "unsupported file type"},
		{"empty body", "/api/outline?filename=a.html", "", http.StatusBadRequest, "document is empty"},
		{"bad option", "/api/outline?filename=a.html&verify-html=perhaps", "<h1>A</h1>", http.StatusBadRequest, "invalid-options"},
		{"root not found", "/api/outline?filename=a.html&root=//nav", "<h1>A</h1>", http.StatusUnprocessableEntity, "invalid-root"},
		{"root not sectioning", "/api/outline?filename=a.html&root=//h1", "<h1>A</h1>", http.StatusUnprocessableEntity, "invalid-root"},
		{"invalid html", "/api/outline?filename=a.html", "<h1>A<aside></aside></h1>", http.StatusUnprocessableEntity, "invalid-html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, strings.NewReader(tt.body), nil)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			out := decode(t, rec)
			assert.Contains(t, out["error"].(string)+" "+stringOr(out["code"]), tt.wantErr)
		})
	}
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

func TestBatchAndJobs(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range map[string]string{"a.html": page, "b.pdf": "%PDF"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	rec := do(t, s, http.MethodPost, "/api/outline/batch", &buf, map[string]string{"Content-Type": mw.FormDataContentType()})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var batch struct {
		Jobs []map[string]any `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Len(t, batch.Jobs, 2)

	var jobID string
	for _, j := range batch.Jobs {
		switch j["filename"] {
		case "a.html":
			jobID = j["job_id"].(string)
			assert.Equal(t, "/api/jobs/"+jobID, j["poll_url"])
		case "b.pdf":
			assert.Contains(t, j["error"], "unsupported file type")
		}
	}
	require.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		rec := do(t, s, http.MethodGet, "/api/jobs/"+jobID, nil, nil)
		return rec.Code == http.StatusOK && decode(t, rec)["status"] == string(pipeline.StatusCompleted)
	}, 5*time.Second, 10*time.Millisecond)

	rec = do(t, s, http.MethodGet, "/api/jobs/"+jobID+"/outline", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Guide", decode(t, rec)["outline"].(map[string]any)["title"])

	rec = do(t, s, http.MethodGet, "/api/jobs/"+jobID+"/outline", nil, map[string]string{"Accept": "text/plain"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Guide\n"))

	rec = do(t, s, http.MethodGet, "/api/jobs/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/stats/build", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	builds := decode(t, rec)["builds"].(map[string]any)
	assert.GreaterOrEqual(t, builds["count"], float64(1))
}

func TestJobOutline_NotFinished(t *testing.T) {
	cfg := config.Config{APIKey: testKey, WorkerCount: 1, MaxQueueSize: 1, MaxUploadBytes: 1 << 20, DefaultRoot: dom.DefaultRoot}
	log := slog.New(slog.DiscardHandler)
	// Never started, so queued jobs stay queued.
	orch := pipeline.NewOrchestrator(cfg, log)
	s := NewServer(orch, log, cfg)

	queued := pipeline.NewJob("a.html", []byte(page))
	require.NoError(t, orch.Submit(queued))
	rejected := pipeline.NewJob("b.html", []byte(page))
	require.Error(t, orch.Submit(rejected))

	rec := do(t, s, http.MethodGet, "/api/jobs/"+queued.ID+"/outline", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "queued", decode(t, rec)["status"])

	rec = do(t, s, http.MethodGet, "/api/jobs/"+rejected.ID+"/outline", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/jobs/"+rejected.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "queue_full", decode(t, rec)["phase"])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
	assert.Equal(t, "a_b.html", sanitizeFilename("a..b.html"))
}
