package summarizer

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const summaryPrompt = `Please analyze this video/audio content and provide a comprehensive summary with the following structure:

1. **Main Topic**: A brief one-sentence description of what this video is about
2. **Key Points**: Bullet points covering the main ideas, concepts, or information presented
3. **Important Details**: Any specific facts, numbers, dates, or noteworthy information
4. **Takeaways**: Key lessons or actionable insights from the content

Format the response in a clear, organized manner with proper sections.`

const audioMIMEType = "audio/wav"

// Summarize reads the extracted WAV fully into memory and makes one
// synchronous Gemini call with the fixed prompt plus the inline audio blob.
// No retry; a failed or empty response is the caller's problem to report.
// The call itself carries no deadline beyond the request context.
func (s *implSummarizer) Summarize(ctx context.Context, audioPath string) (string, error) {
	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	s.logger.Info(ctx, "Summarizing %d bytes of audio with model %s", len(audioData), s.model)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(summaryPrompt),
			genai.NewPartFromBytes(audioData, audioMIMEType),
		}, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text, err := textFromResponse(result)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "Summary generated (%d chars)", len(text))
	return text, nil
}

// textFromResponse concatenates the text parts of the first candidate.
func textFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}
