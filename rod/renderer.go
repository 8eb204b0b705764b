// Package rod implements the renderer contract with Chrome browser
// automation. A Session pairs a live page with a serialized snapshot
// protocol: snapshot locations are sibling-index paths that resolve back
// to live elements for clicking and typing.
package rod

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/shoplens/shoplens"
)

// Ensure Renderer implements shoplens.Renderer at compile time.
var _ shoplens.Renderer = (*Renderer)(nil)

const (
	defaultViewportWidth  = 1366
	defaultViewportHeight = 900
	defaultRenderTimeout  = 45 * time.Second

	// stableWindow is how long the DOM must stay unchanged for WaitStable
	// to consider the page settled.
	stableWindow = 500 * time.Millisecond
)

// Renderer produces Sessions backed by headless Chrome pages. The browser
// is recycled periodically by a BrowserManager to keep Chrome's memory
// growth bounded. Renderer is safe for concurrent use; every Render call
// gets its own page, so sessions share no in-page state.
type Renderer struct {
	manager *BrowserManager
}

// NewRenderer launches a headless Chrome browser.
// Close must be called when the Renderer is no longer needed.
func NewRenderer(opts ...ManagerOption) (*Renderer, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.ERENDER, "starting browser: %v", err)
	}
	return &Renderer{manager: manager}, nil
}

// Render navigates to the URL and waits for the initial load.
func (r *Renderer) Render(ctx context.Context, url string, opts shoplens.RenderOptions) (shoplens.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultRenderTimeout
	}
	width := opts.ViewportWidth
	if width == 0 {
		width = defaultViewportWidth
	}
	height := opts.ViewportHeight
	if height == 0 {
		height = defaultViewportHeight
	}

	page, err := r.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, shoplens.Errorf(shoplens.ERENDER, "creating page: %v", err)
	}
	r.manager.IncrementPageCount()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		page.Close()
		return nil, shoplens.Errorf(shoplens.ERENDER, "setting viewport: %v", err)
	}

	loading := page.Timeout(timeout)
	if err := loading.Navigate(url); err != nil {
		page.Close()
		return nil, shoplens.Errorf(shoplens.ERENDER, "navigating to %s: %v", url, err)
	}
	if err := loading.WaitLoad(); err != nil {
		page.Close()
		return nil, shoplens.Errorf(shoplens.ERENDER, "waiting for %s to load: %v", url, err)
	}

	return &Session{page: page}, nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// Session is one live rendered page.
type Session struct {
	page *rod.Page
}

var _ shoplens.Session = (*Session)(nil)

// snapshotJS serializes the element tree with layout boxes, computed font
// sizes and clickability. Only element children are traversed, which keeps
// the sibling indexes consistent with the path-resolution scripts below.
const snapshotJS = `() => {
	const ser = (el) => {
		const r = el.getBoundingClientRect();
		const cs = window.getComputedStyle(el);
		const attrs = {};
		for (const a of el.attributes) attrs[a.name] = a.value;
		let text = '';
		for (const n of el.childNodes) {
			if (n.nodeType === Node.TEXT_NODE) text += n.textContent;
		}
		return {
			tag: el.tagName.toLowerCase(),
			text: text.trim().slice(0, 2000),
			classes: Array.from(el.classList),
			attrs: attrs,
			rect: {x: r.x, y: r.y, w: r.width, h: r.height},
			fontSize: parseFloat(cs.fontSize) || 0,
			visible: r.width > 0 && r.height > 0 && cs.visibility !== 'hidden' && cs.display !== 'none',
			clickable: cs.cursor === 'pointer' || typeof el.onclick === 'function',
			children: Array.from(el.children).map(ser),
		};
	};
	return JSON.stringify(ser(document.documentElement));
}`

// pathJS computes the sibling-index path of the first element matching a
// CSS selector.
const pathJS = `(sel) => {
	let el = document.querySelector(sel);
	if (!el) return '';
	const parts = [];
	while (el !== document.documentElement) {
		const parent = el.parentElement;
		if (!parent) return '';
		parts.unshift(Array.prototype.indexOf.call(parent.children, el));
		el = parent;
	}
	parts.unshift(0);
	return parts.join('/');
}`

// resolveJS resolves a sibling-index path back to a live element.
const resolveJS = `(path) => {
	let el = document.documentElement;
	for (const part of path.split('/').slice(1)) {
		el = el.children[Number(part)];
		if (!el) return null;
	}
	return el;
}`

// Snapshot serializes the current element tree.
func (s *Session) Snapshot(ctx context.Context) (*shoplens.Node, error) {
	obj, err := s.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.ERENDER, "serializing page: %v", err)
	}
	var root shoplens.Node
	if err := json.Unmarshal([]byte(obj.Value.Str()), &root); err != nil {
		return nil, shoplens.Errorf(shoplens.EPARSE, "decoding snapshot: %v", err)
	}
	return &root, nil
}

// HTML returns the current serialized DOM.
func (s *Session) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", shoplens.Errorf(shoplens.ERENDER, "serializing dom: %v", err)
	}
	return html, nil
}

// Find returns the location of the first element matching the selector.
func (s *Session) Find(ctx context.Context, selector string) (shoplens.Location, error) {
	obj, err := s.page.Context(ctx).Eval(pathJS, selector)
	if err != nil {
		return "", shoplens.Errorf(shoplens.ERENDER, "querying %q: %v", selector, err)
	}
	path := obj.Value.Str()
	if path == "" {
		return "", shoplens.Errorf(shoplens.ENOTFOUND, "no element matches %q", selector)
	}
	return shoplens.Location(path), nil
}

// Click activates the element at the location.
func (s *Session) Click(ctx context.Context, loc shoplens.Location) error {
	el, err := s.element(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return shoplens.Errorf(shoplens.ERENDER, "clicking %s: %v", loc, err)
	}
	return nil
}

// Type replaces the element's value with text.
func (s *Session) Type(ctx context.Context, loc shoplens.Location, text string) error {
	el, err := s.element(ctx, loc)
	if err != nil {
		return err
	}
	// Select any prefilled value so the input replaces it.
	_ = el.SelectAllText()
	if err := el.Input(text); err != nil {
		return shoplens.Errorf(shoplens.ERENDER, "typing into %s: %v", loc, err)
	}
	return nil
}

// Press focuses the element and presses a single key.
func (s *Session) Press(ctx context.Context, loc shoplens.Location, key string) error {
	el, err := s.element(ctx, loc)
	if err != nil {
		return err
	}
	k, err := keyFor(key)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return shoplens.Errorf(shoplens.ERENDER, "focusing %s: %v", loc, err)
	}
	if err := s.page.Context(ctx).Keyboard.Press(k); err != nil {
		return shoplens.Errorf(shoplens.ERENDER, "pressing %s: %v", key, err)
	}
	return nil
}

// Screenshot captures the viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	img, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, shoplens.Errorf(shoplens.ERENDER, "capturing screenshot: %v", err)
	}
	return img, nil
}

// WaitStable waits until the DOM stops mutating, up to d.
func (s *Session) WaitStable(ctx context.Context, d time.Duration) error {
	if err := s.page.Context(ctx).Timeout(d).WaitStable(stableWindow); err != nil {
		// A page that never settles within d is usable anyway.
		return shoplens.Errorf(shoplens.ERENDER, "waiting for stable dom: %v", err)
	}
	return nil
}

// Close releases the page.
func (s *Session) Close() error {
	return s.page.Close()
}

func keyFor(key string) (input.Key, error) {
	switch key {
	case "Enter":
		return input.Enter, nil
	case "Tab":
		return input.Tab, nil
	case "Escape":
		return input.Escape, nil
	}
	return 0, shoplens.Errorf(shoplens.EINVALID, "unsupported key %q", key)
}

func (s *Session) element(ctx context.Context, loc shoplens.Location) (*rod.Element, error) {
	el, err := s.page.Context(ctx).ElementByJS(rod.Eval(resolveJS, string(loc)))
	if err != nil {
		return nil, shoplens.Errorf(shoplens.ENOTFOUND, "no element at %s: %v", loc, err)
	}
	return el, nil
}
