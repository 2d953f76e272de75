package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/atulbhartiproff/ai-video-summariser/internal/config"
	"github.com/atulbhartiproff/ai-video-summariser/internal/extractor"
	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
	"github.com/atulbhartiproff/ai-video-summariser/internal/storage"
	"github.com/atulbhartiproff/ai-video-summariser/pkg/executor"
)

// fakeExtractor writes audio.wav next to the input on success, or fails with
// the injected error.
type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, videoPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	audioPath := filepath.Join(filepath.Dir(videoPath), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
		return "", err
	}
	return audioPath, nil
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, audioPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	return f.summary, nil
}

type testEnv struct {
	engine  *gin.Engine
	tempDir string
}

func setupTestServer(t *testing.T, maxFileSizeMB int64, ext *fakeExtractor, sum *fakeSummarizer) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tempDir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "5000"},
		Gemini: config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.0-flash"},
		Upload: config.UploadConfig{MaxFileSizeMB: maxFileSizeMB},
		Paths:  config.PathsConfig{Temp: tempDir},
	}

	log := logger.New("error")
	files := storage.NewManager(cfg.Paths.Temp, cfg.MaxFileSizeBytes(), log)

	engine := gin.New()
	api := NewAPI(cfg, files, ext, sum, log)
	registerRoutes(engine, api)

	return testEnv{engine: engine, tempDir: tempDir}
}

// buildUpload creates a multipart body with an explicit part content type,
// the way browsers declare the uploaded file's type.
func buildUpload(t *testing.T, filename, contentType, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func doUpload(t *testing.T, env testEnv, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Detail
}

func assertNoLeftovers(t *testing.T, env testEnv) {
	t.Helper()
	entries, err := os.ReadDir(env.tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty after request: %v", entries)
	}
}

func TestHealth(t *testing.T) {
	// No API key or external tool involvement: stages would fail loudly if hit.
	env := setupTestServer(t, 500, &fakeExtractor{err: errors.New("must not run")}, &fakeSummarizer{err: errors.New("must not run")})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "ai-video-summarizer-backend" {
		t.Errorf("body = %v", body)
	}
}

func TestUploadSuccess(t *testing.T) {
	env := setupTestServer(t, 500, &fakeExtractor{}, &fakeSummarizer{summary: "Mock summary"})

	body, ct := buildUpload(t, "lecture.mp4", "video/mp4", "fake video bytes", nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Summary != "Mock summary" {
		t.Errorf("summary = %q, want Mock summary", resp.Summary)
	}
	if resp.Filename != "lecture.mp4" {
		t.Errorf("filename = %q, want lecture.mp4", resp.Filename)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}

	assertNoLeftovers(t, env)
}

func TestUploadInvalidContentType(t *testing.T) {
	env := setupTestServer(t, 500, &fakeExtractor{}, &fakeSummarizer{summary: "Mock summary"})

	body, ct := buildUpload(t, "notes.txt", "text/plain", "not a video", nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if detail := decodeDetail(t, rec); !strings.Contains(detail, "Invalid file type") {
		t.Errorf("detail = %q", detail)
	}

	assertNoLeftovers(t, env)
}

func TestUploadMissingFile(t *testing.T) {
	env := setupTestServer(t, 500, &fakeExtractor{}, &fakeSummarizer{summary: "Mock summary"})

	rec := doUpload(t, env, &bytes.Buffer{}, "multipart/form-data; boundary=empty")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadTooLarge(t *testing.T) {
	env := setupTestServer(t, 1, &fakeExtractor{}, &fakeSummarizer{summary: "Mock summary"})

	oversized := strings.Repeat("x", 2*1024*1024)
	body, ct := buildUpload(t, "big.mp4", "video/mp4", oversized, nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "File too large. Maximum size is 1MB." {
		t.Errorf("detail = %q", detail)
	}

	assertNoLeftovers(t, env)
}

func TestUploadExtractionFailure(t *testing.T) {
	cmdErr := &executor.CommandError{
		Name:   "ffmpeg",
		Stderr: "moov atom not found",
		Err:    errors.New("exit status 1"),
	}
	env := setupTestServer(t, 500,
		&fakeExtractor{err: fmt.Errorf("ffmpeg extract audio: %w", cmdErr)},
		&fakeSummarizer{summary: "Mock summary"})

	body, ct := buildUpload(t, "broken.mp4", "video/mp4", "garbage", nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Failed to extract audio: moov atom not found" {
		t.Errorf("detail = %q, want ffmpeg stderr verbatim", detail)
	}

	assertNoLeftovers(t, env)
}

func TestUploadExtractionTimeout(t *testing.T) {
	env := setupTestServer(t, 500,
		&fakeExtractor{err: fmt.Errorf("%w after 5m0s", extractor.ErrTimeout)},
		&fakeSummarizer{summary: "Mock summary"})

	body, ct := buildUpload(t, "huge.mp4", "video/mp4", "data", nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Processing timeout - video file may be too large or complex" {
		t.Errorf("detail = %q", detail)
	}

	assertNoLeftovers(t, env)
}

func TestUploadExtractionOutputMissing(t *testing.T) {
	env := setupTestServer(t, 500,
		&fakeExtractor{err: fmt.Errorf("%w: audio.wav", extractor.ErrOutputMissing)},
		&fakeSummarizer{summary: "Mock summary"})

	body, ct := buildUpload(t, "silent.mp4", "video/mp4", "data", nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Audio extraction failed - output file not found" {
		t.Errorf("detail = %q", detail)
	}

	assertNoLeftovers(t, env)
}

func TestUploadSummarizationFailure(t *testing.T) {
	env := setupTestServer(t, 500,
		&fakeExtractor{},
		&fakeSummarizer{err: errors.New("generate content: quota exceeded")})

	body, ct := buildUpload(t, "lecture.mp4", "video/mp4", "data", nil)
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	detail := decodeDetail(t, rec)
	if !strings.HasPrefix(detail, "Failed to generate summary with Gemini:") {
		t.Errorf("detail = %q", detail)
	}
	if !strings.Contains(detail, "quota exceeded") {
		t.Errorf("detail = %q, should carry the underlying message", detail)
	}

	assertNoLeftovers(t, env)
}

func TestUploadUnknownFormat(t *testing.T) {
	env := setupTestServer(t, 500, &fakeExtractor{}, &fakeSummarizer{summary: "Mock summary"})

	body, ct := buildUpload(t, "lecture.mp4", "video/mp4", "data", map[string]string{"format": "pdf"})
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadDocxFormat(t *testing.T) {
	env := setupTestServer(t, 500, &fakeExtractor{}, &fakeSummarizer{summary: "# Mock summary\n\n- one point"})

	body, ct := buildUpload(t, "lecture.mp4", "video/mp4", "data", map[string]string{"format": "docx"})
	rec := doUpload(t, env, body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "lecture.docx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected a non-empty document body")
	}

	assertNoLeftovers(t, env)
}
