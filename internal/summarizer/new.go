package summarizer

import (
	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
)

type implSummarizer struct {
	apiKey string
	model  string
	logger logger.Logger
}

// New creates a Summarizer backed by the given Gemini API key and model.
func New(apiKey, model string, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKey: apiKey,
		model:  model,
		logger: log,
	}
}
