package shoplens

// Converter converts HTML to Markdown. The AI strategy prompts over
// markdown rather than raw HTML: smaller, and free of markup noise.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
