package summarizer

import "context"

// Summarizer sends extracted audio to Gemini and returns the generated summary text.
type Summarizer interface {
	Summarize(ctx context.Context, audioPath string) (string, error)
}
