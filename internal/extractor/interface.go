package extractor

import "context"

// Extractor defines the interface for pulling the audio track out of a video file
type Extractor interface {
	Extract(ctx context.Context, videoPath string) (string, error)
}
