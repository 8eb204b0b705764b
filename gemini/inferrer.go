// Package gemini implements the inference-service contract using Google
// Gemini.
package gemini

import (
	"context"

	"github.com/shoplens/shoplens"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Inferrer implements shoplens.Inferrer at compile time.
var _ shoplens.Inferrer = (*Inferrer)(nil)

// Inferrer sends extraction prompts, optionally with a page screenshot, to
// Gemini and returns the raw model text. Parsing is the caller's job.
type Inferrer struct {
	client *genai.Client
}

// NewInferrer creates a new Inferrer.
func NewInferrer(client *genai.Client) *Inferrer {
	return &Inferrer{client: client}
}

// Infer sends the prompt and optional PNG screenshot to the model.
func (i *Inferrer) Infer(ctx context.Context, prompt string, image []byte) (string, error) {
	if prompt == "" {
		return "", shoplens.Errorf(shoplens.EINVALID, "prompt required")
	}

	parts := []*genai.Part{{Text: prompt}}
	if len(image) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/png", Data: image},
		})
	}

	result, err := i.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: parts}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", shoplens.Errorf(shoplens.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// Low temperature: extraction wants determinism, not creativity.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract structured product data from e-commerce pages. Respond with only the requested JSON, no prose and no markdown fences. Use null for anything the page does not state.",
			}},
		},
		Temperature: &temp,
	}
}
