package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/shoplens/shoplens"
)

// Ensure Extractor implements shoplens.ContentExtractor at compile time.
var _ shoplens.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
// It is an alternative to the trafilatura extractor; readability tends
// to keep more of the page, which suits sparse product descriptions.
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.EPARSE, "extracting content: %v", err)
	}

	return &shoplens.Content{
		Title: article.Title,
		Text:  article.TextContent,
	}, nil
}
