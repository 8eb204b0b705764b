package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/shoplens/shoplens"
)

// Ensure Extractor implements shoplens.ContentExtractor at compile time.
var _ shoplens.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with
// boilerplate stripped.
func (e *Extractor) Extract(rawHTML string) (*shoplens.Content, error) {
	if rawHTML == "" {
		return nil, shoplens.Errorf(shoplens.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.EPARSE, "extracting content: %v", err)
	}

	return &shoplens.Content{
		Title: result.Metadata.Title,
		Text:  result.ContentText,
	}, nil
}
