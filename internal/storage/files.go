package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
)

// ErrFileTooLarge reports an upload whose cumulative byte count exceeded the
// configured ceiling. The copy is aborted the first time the ceiling is hit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

const copyBufferSize = 32 * 1024

// Manager hands out per-request workspaces under a common base directory.
type Manager struct {
	baseDir  string
	maxBytes int64
	logger   logger.Logger
}

// NewManager creates a Manager. An empty baseDir means the OS temp location.
func NewManager(baseDir string, maxBytes int64, log logger.Logger) *Manager {
	return &Manager{
		baseDir:  baseDir,
		maxBytes: maxBytes,
		logger:   log,
	}
}

// Workspace is a uniquely named temporary directory owned by one request.
// Everything written into it is removed by Cleanup regardless of outcome.
type Workspace struct {
	Dir    string
	logger logger.Logger
}

// NewWorkspace creates the request's temporary directory.
func (m *Manager) NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp(m.baseDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Workspace{Dir: dir, logger: m.logger}, nil
}

// SaveUpload streams r into the workspace in fixed-size chunks under a
// uuid-based name keeping the original extension. It aborts with
// ErrFileTooLarge the first time the cumulative count exceeds the ceiling,
// without reading further.
func (m *Manager) SaveUpload(ws *Workspace, filename string, r io.Reader) (string, error) {
	ext := filepath.Ext(filepath.Base(filename))
	if ext == "" {
		ext = ".mp4"
	}
	path := filepath.Join(ws.Dir, uuid.NewString()+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	var total int64
	buf := make([]byte, copyBufferSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if m.maxBytes > 0 && total > m.maxBytes {
				out.Close()
				return "", ErrFileTooLarge
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				return "", fmt.Errorf("write upload file: %w", writeErr)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			return "", fmt.Errorf("read upload content: %w", readErr)
		}
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path, nil
}

// Cleanup removes the workspace and everything in it. Best effort only:
// failures are logged and swallowed, never surfaced to the caller.
func (ws *Workspace) Cleanup(ctx context.Context) {
	if err := os.RemoveAll(ws.Dir); err != nil {
		ws.logger.Warn(ctx, "Failed to cleanup workspace %s: %v", ws.Dir, err)
	} else {
		ws.logger.Debug(ctx, "Cleaned up workspace: %s", ws.Dir)
	}
}
