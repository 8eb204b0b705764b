package mock

import "github.com/shoplens/shoplens"

var _ shoplens.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of shoplens.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*shoplens.Content, error)
}

func (e *ContentExtractor) Extract(html string) (*shoplens.Content, error) {
	return e.ExtractFn(html)
}
