package shoplens

import (
	"context"
	"time"
)

// RenderOptions controls a single page render.
type RenderOptions struct {
	// Timeout bounds navigation plus initial load. Zero means the
	// implementation default.
	Timeout time.Duration

	// Viewport dimensions in CSS pixels. Zero means the implementation
	// default.
	ViewportWidth  int
	ViewportHeight int
}

// Renderer produces live, queryable sessions for URLs.
// Implementations use browser automation to handle JavaScript-rendered
// content. Sessions must not share in-page state; concurrent pipelines each
// get their own.
type Renderer interface {
	// Render navigates to the URL, waits for the initial load, and returns
	// a live session. The context controls timeout and cancellation.
	Render(ctx context.Context, url string, opts RenderOptions) (Session, error)

	// Close releases browser resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}

// Session is one live rendered page. Snapshot serializes the element tree
// for indexing and scoring; the interactive methods act on the live DOM for
// the obstacle, variant and delivery protocols. Locations obtained from a
// snapshot stay resolvable until the next DOM mutation.
type Session interface {
	// Snapshot serializes the current element tree, including layout boxes
	// and computed font sizes.
	Snapshot(ctx context.Context) (*Node, error)

	// HTML returns the current serialized DOM.
	HTML(ctx context.Context) (string, error)

	// Find returns the location of the first element matching the CSS
	// selector. Returns ENOTFOUND when nothing matches.
	Find(ctx context.Context, selector string) (Location, error)

	// Click activates the element at the location.
	Click(ctx context.Context, loc Location) error

	// Type replaces the element's value with text.
	Type(ctx context.Context, loc Location, text string) error

	// Press focuses the element and presses a single key (e.g. "Enter").
	Press(ctx context.Context, loc Location, key string) error

	// Screenshot captures the viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// WaitStable waits until the DOM stops mutating, up to d.
	WaitStable(ctx context.Context, d time.Duration) error

	// Close releases the page.
	Close() error
}
