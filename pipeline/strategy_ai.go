package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/jsonrepair"
)

var _ shoplens.Strategy = (*AIStrategy)(nil)

// maxPromptChars bounds the page text fed to the inference service.
// Product detail lives near the top of the document, so truncation is
// cheap.
const maxPromptChars = 60_000

const extractPrompt = `You are given the content of an e-commerce product page.
Extract the product data and respond with ONLY a JSON object in exactly this shape,
using null for anything the page does not state:

{
  "title": string|null,
  "price": string|null,
  "originalPrice": string|null,
  "description": string|null,
  "features": [string],
  "images": [string],
  "variants": {"sizes": [string], "colors": [string], "other": [string]},
  "weight": string|null,
  "category": string|null
}

Keep currency symbols in prices. Use absolute URLs for images.

Page content:
`

// AIStrategy is the escalation tier: it prompts the inference service with
// the page as markdown (plus a screenshot when a live session exists) and
// parses the reply through the staged JSON repairs. Service errors and
// unparsable replies surface as EPARSE, which the orchestrator reads as
// "fall back further".
type AIStrategy struct {
	Inferrer  shoplens.Inferrer
	Converter shoplens.Converter // optional

	// Timeout caps the inference round trip. Zero means
	// DefaultInferTimeout.
	Timeout time.Duration
}

func (s *AIStrategy) Name() string { return "ai" }

func (s *AIStrategy) Extract(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
	if s.Inferrer == nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "no inference service configured")
	}
	content := s.pageText(page)
	if content == "" {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "ai strategy has no page content to prompt with")
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultInferTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var screenshot []byte
	if page.Session != nil {
		screenshot, _ = page.Session.Screenshot(ctx)
	}

	raw, err := s.Inferrer.Infer(ctx, extractPrompt+content, screenshot)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.EPARSE, "inference service unavailable: %v", err)
	}

	var out struct {
		Title         *string `json:"title"`
		Price         *string `json:"price"`
		OriginalPrice *string `json:"originalPrice"`
		Description   *string `json:"description"`
		Features      []string
		Images        []string
		Variants      shoplens.Variants
		Weight        *string `json:"weight"`
		Category      *string `json:"category"`
	}
	if err := jsonrepair.Decode(raw, &out); err != nil {
		return nil, err
	}

	rec := &shoplens.ProductRecord{
		Price:         derefClean(out.Price),
		OriginalPrice: derefClean(out.OriginalPrice),
		Description:   derefClean(out.Description),
		Title:         derefClean(out.Title),
		Weight:        derefClean(out.Weight),
		Category:      derefClean(out.Category),
		Features:      out.Features,
		Images:        out.Images,
		Variants:      out.Variants,
	}
	return rec, nil
}

// pageText prefers markdown over raw HTML: smaller and free of markup
// noise. When conversion fails the raw HTML still goes out.
func (s *AIStrategy) pageText(page *shoplens.PageContext) string {
	text := page.HTML
	if s.Converter != nil && text != "" {
		if md, err := s.Converter.Convert(text); err == nil && strings.TrimSpace(md) != "" {
			text = md
		}
	}
	text = truncate(text, maxPromptChars)
	return text
}

// derefClean re-points through String so model-supplied whitespace and
// empty strings normalize to null.
func derefClean(s *string) *string {
	if s == nil {
		return nil
	}
	return shoplens.String(*s)
}
