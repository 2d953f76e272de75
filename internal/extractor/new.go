package extractor

import (
	"time"

	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
	"github.com/atulbhartiproff/ai-video-summariser/pkg/executor"
)

// DefaultTimeout bounds a single ffmpeg run. Extraction that outlives it is
// reported as a timeout, never retried.
const DefaultTimeout = 5 * time.Minute

type implExtractor struct {
	executor executor.Executor
	logger   logger.Logger
	timeout  time.Duration
}

// New creates a new Extractor instance
func New(exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		executor: exec,
		logger:   log,
		timeout:  DefaultTimeout,
	}
}
