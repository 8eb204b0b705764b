package shoplens

// Content holds the main content of an HTML page with boilerplate (nav,
// footer, sidebar, ads) removed.
type Content struct {
	// Title is the page title extracted from metadata.
	Title string

	// Text is the main content as plain text.
	Text string
}

// ContentExtractor extracts main content from HTML pages, removing
// boilerplate. The heuristic strategy uses it for its
// longest-qualifying-text-block description pass.
type ContentExtractor interface {
	Extract(html string) (*Content, error)
}
