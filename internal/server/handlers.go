package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atulbhartiproff/ai-video-summariser/internal/config"
	"github.com/atulbhartiproff/ai-video-summariser/internal/extractor"
	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
	"github.com/atulbhartiproff/ai-video-summariser/internal/storage"
	"github.com/atulbhartiproff/ai-video-summariser/internal/summarizer"
	"github.com/atulbhartiproff/ai-video-summariser/pkg/executor"
)

const serviceName = "ai-video-summarizer-backend"

// API wires HTTP routes to the intake, extraction, and summarization stages.
type API struct {
	cfg       *config.Config
	files     *storage.Manager
	extract   extractor.Extractor
	summarize summarizer.Summarizer
	logger    logger.Logger
}

// NewAPI constructs an API instance.
func NewAPI(cfg *config.Config, files *storage.Manager, extract extractor.Extractor, summarize summarizer.Summarizer, log logger.Logger) *API {
	return &API{
		cfg:       cfg,
		files:     files,
		extract:   extract,
		summarize: summarize,
		logger:    log,
	}
}

func registerRoutes(r *gin.Engine, api *API) {
	r.GET("/health", api.handleHealth)
	r.POST("/api/upload", api.handleUpload)
}

type summaryResponse struct {
	Summary  string `json:"summary"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

func respondError(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

// handleHealth never touches the API key, ffmpeg, or the network.
func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
}

// handleUpload runs the straight-line sequence: intake, extract, summarize,
// respond. The workspace cleanup is deferred before the first stage so it
// runs on every exit path, success or failure.
func (a *API) handleUpload(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided. Please upload a video file.")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		respondError(c, http.StatusBadRequest, "Invalid file type. Please upload a video file.")
		return
	}

	format := c.DefaultPostForm("format", "json")
	if format != "json" && format != "docx" {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Unknown response format %q. Use json or docx.", format))
		return
	}

	ws, err := a.files.NewWorkspace()
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Unexpected error: %v", err))
		return
	}
	defer ws.Cleanup(ctx)

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Unexpected error: %v", err))
		return
	}
	defer src.Close()

	inputPath, err := a.files.SaveUpload(ws, fileHeader.Filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("File too large. Maximum size is %dMB.", a.cfg.Upload.MaxFileSizeMB))
			return
		}
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Unexpected error: %v", err))
		return
	}

	audioPath, err := a.extract.Extract(ctx, inputPath)
	if err != nil {
		respondError(c, http.StatusInternalServerError, extractionDetail(err))
		return
	}

	summary, err := a.summarize.Summarize(ctx, audioPath)
	if err != nil {
		respondError(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to generate summary with Gemini: %v", err))
		return
	}

	if format == "docx" {
		a.respondDocx(c, ws, fileHeader.Filename, summary)
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		Summary:  summary,
		Filename: fileHeader.Filename,
		Status:   "success",
	})
}

// extractionDetail maps an extraction error to its user-visible message.
// Timeout and missing-output keep their own messages, distinct from the
// generic tool failure which carries ffmpeg's stderr verbatim.
func extractionDetail(err error) string {
	switch {
	case errors.Is(err, extractor.ErrTimeout):
		return "Processing timeout - video file may be too large or complex"
	case errors.Is(err, extractor.ErrOutputMissing):
		return "Audio extraction failed - output file not found"
	}

	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Stderr != "" {
		return fmt.Sprintf("Failed to extract audio: %s", cmdErr.Stderr)
	}
	return fmt.Sprintf("Failed to extract audio: %v", err)
}

// respondDocx renders the summary into the workspace and streams it back as
// an attachment. The file lives inside the workspace, so the deferred cleanup
// covers it too.
func (a *API) respondDocx(c *gin.Context, ws *storage.Workspace, filename, summary string) {
	docPath := filepath.Join(ws.Dir, "summary.docx")
	if err := summarizer.WriteDocx(filename, summary, docPath); err != nil {
		respondError(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to render summary document: %v", err))
		return
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" {
		base = "summary"
	}
	c.FileAttachment(docPath, base+".docx")
}
