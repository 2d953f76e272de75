package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/atulbhartiproff/ai-video-summariser/internal/config"
	"github.com/atulbhartiproff/ai-video-summariser/internal/extractor"
	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
	"github.com/atulbhartiproff/ai-video-summariser/internal/storage"
	"github.com/atulbhartiproff/ai-video-summariser/internal/summarizer"
	"github.com/atulbhartiproff/ai-video-summariser/pkg/executor"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

// NewServer wires the full stack: storage manager, ffmpeg extractor, Gemini
// summarizer, middleware, and routes.
func NewServer(cfg *config.Config, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	files := storage.NewManager(cfg.Paths.Temp, cfg.MaxFileSizeBytes(), log)
	exec := executor.New()
	extract := extractor.New(exec, log)
	summarize := summarizer.New(cfg.Gemini.APIKey, cfg.Gemini.Model, log)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(CORS())

	api := NewAPI(cfg, files, extract, summarize, log)
	registerRoutes(engine, api)

	return &Server{engine: engine, cfg: cfg}
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Server.Port)
	return s.engine.Run(addr)
}
