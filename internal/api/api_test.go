package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microhub/internal/core"
	"microhub/internal/service"
	"microhub/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.FS) {
	t.Helper()
	fs := store.NewFS(filepath.Join(t.TempDir(), "data"))
	logger := core.NewLoggerTo(io.Discard, "error")
	svc := service.NewService(fs, &core.Config{SubmissionsDir: "submissions"}, logger)
	return NewRouter(svc, logger), fs
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func submissionPayload() map[string]any {
	return map[string]any{
		"title":           "Lunar Dust Mitigation Study",
		"purpose":         "Reduce abrasion damage on rover joints",
		"deliverable":     "A whitepaper with tested coatings",
		"output_type":     "Whitepaper",
		"scope":           "Coatings only, not mechanical redesign",
		"target_audience": "Rover engineering teams",
		"releasability":   "public",
		"duration_weeks":  8,
		"milestones":      "Survey, lab tests, report draft, review",
		"effort_estimate": "2 people, half time",
		"lead_name":       "Alice",
		"lead_email":      "a@x.com",
		"focus_area":      "Research & Technology",
	}
}

func TestCreateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/submissions", submissionPayload())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Contains(t, resp["filename"], "pending__")
	assert.Contains(t, resp["filename"], "lunar-dust-mitigation-study.yaml")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestCreateEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	payload := submissionPayload()
	payload["duration_weeks"] = 15
	w, resp := doJSON(t, r, http.MethodPost, "/api/submissions", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	details, _ := json.Marshal(resp["details"])
	assert.Contains(t, string(details), "duration_weeks")
}

func TestCreateEndpointDuplicate(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/submissions", submissionPayload())
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/api/submissions", submissionPayload())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestCreateEndpointBadJSON(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpoint(t *testing.T) {
	r, fs := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, "submissions/pending__2024-01-01-good.yaml", []byte("title: Good one\n"), "create", ""))
	require.NoError(t, fs.Put(ctx, "submissions/pending__2024-01-02-bad.yaml", []byte("::: not yaml :::"), "create", ""))

	w, resp := doJSON(t, r, http.MethodGet, "/api/submissions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	files, ok := resp["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 2)

	byName := map[string]map[string]any{}
	for _, f := range files {
		m := f.(map[string]any)
		byName[m["name"].(string)] = m
	}

	good := byName["pending__2024-01-01-good.yaml"]
	require.NotNil(t, good)
	assert.NotEmpty(t, good["revision"])
	assert.Equal(t, "Good one", good["parsed"].(map[string]any)["title"])

	bad := byName["pending__2024-01-02-bad.yaml"]
	require.NotNil(t, bad)
	assert.Nil(t, bad["parsed"])
	assert.Contains(t, bad["error"], "parse")
}

func TestListEndpointEmpty(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/submissions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	files, ok := resp["files"].([]any)
	require.True(t, ok)
	assert.Empty(t, files)
}

func TestJoinEndpoint(t *testing.T) {
	r, fs := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, fs.Put(ctx, "submissions/pending__2024-01-01-x.yaml",
		[]byte("title: Some project\nteam_members: \"Alice <a@x.com>\\nBob\"\n"), "create", ""))

	w, resp := doJSON(t, r, http.MethodPost, "/api/submissions/join", map[string]any{
		"filename": "pending__2024-01-01-x.yaml",
		"name":     "Carol",
		"email":    "carol@y.org",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])

	f, err := fs.Get(ctx, "submissions/pending__2024-01-01-x.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(f.Content), "Carol")
}

func TestJoinEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/submissions/join", map[string]any{
		"filename": "pending__2024-01-01-x.yaml",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestJoinEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/submissions/join", map[string]any{
		"filename": "pending__2024-01-01-gone.yaml",
		"name":     "Carol",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	r, fs := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, fs.Put(ctx, "submissions/pending__2024-01-01-x.yaml", []byte("title: Some project\n"), "create", ""))

	w, resp := doJSON(t, r, http.MethodPatch, "/api/submissions/status", map[string]any{
		"filename":  "pending__2024-01-01-x.yaml",
		"newStatus": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "pending__2024-01-01-x.yaml", resp["oldFilename"])
	assert.Equal(t, "approved__2024-01-01-x.yaml", resp["newFilename"])

	_, err := fs.Get(ctx, "submissions/approved__2024-01-01-x.yaml")
	assert.NoError(t, err)
}

func TestStatusEndpointInvalidStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPatch, "/api/submissions/status", map[string]any{
		"filename":  "pending__2024-01-01-x.yaml",
		"newStatus": "archived",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestStatusEndpointMalformedFilename(t *testing.T) {
	r, fs := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, fs.Put(ctx, "submissions/bad-filename.yaml", []byte("title: Some project\n"), "create", ""))

	w, resp := doJSON(t, r, http.MethodPatch, "/api/submissions/status", map[string]any{
		"filename":  "bad-filename.yaml",
		"newStatus": "approved",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["error"], "filename")
}

func TestStatusEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPatch, "/api/submissions/status", map[string]any{
		"filename":  "pending__2024-01-01-gone.yaml",
		"newStatus": "approved",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
}

func TestRequestIDPassthrough(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "req-custom1234")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-custom1234", w.Header().Get("X-Request-Id"))
}
