package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrTimeout reports that ffmpeg did not finish within the wall-clock bound.
	ErrTimeout = errors.New("audio extraction timed out")
	// ErrOutputMissing reports a zero exit status with no output file on disk.
	ErrOutputMissing = errors.New("audio extraction output not found")
)

// Extract pulls the audio track out of a video file into a PCM WAV next to it.
// The format matches what the summarization model expects: uncompressed
// 16-bit stereo at 44.1kHz.
func (e *implExtractor) Extract(ctx context.Context, videoPath string) (string, error) {
	audioPath := filepath.Join(filepath.Dir(videoPath), "audio.wav")

	e.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// FFmpeg arguments for audio extraction
	// -i: Input video
	// -vn: No video (audio only)
	// -acodec pcm_s16le: PCM 16-bit little-endian (uncompressed)
	// -ar 44100: Sample rate 44.1kHz
	// -ac 2: Stereo
	// -y: Overwrite output file if exists
	args := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "44100",
		"-ac", "2",
		"-y",
		audioPath,
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if _, err := e.executor.Execute(runCtx, "ffmpeg", args...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %s", ErrTimeout, e.timeout, videoPath)
		}
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	// A zero exit status does not guarantee output; ffmpeg can succeed on a
	// container that carries no audio stream.
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, audioPath)
	}

	e.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
