package mock

import (
	"context"
	"time"

	"github.com/shoplens/shoplens"
)

var _ shoplens.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of shoplens.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string, opts shoplens.RenderOptions) (shoplens.Session, error)
	CloseFn  func() error

	RenderInvoked int
}

func (r *Renderer) Render(ctx context.Context, url string, opts shoplens.RenderOptions) (shoplens.Session, error) {
	r.RenderInvoked++
	return r.RenderFn(ctx, url, opts)
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}

var _ shoplens.Session = (*Session)(nil)

// Session is a mock implementation of shoplens.Session. Nil methods
// degrade to inert defaults so tests only wire what they assert on.
type Session struct {
	SnapshotFn   func(ctx context.Context) (*shoplens.Node, error)
	HTMLFn       func(ctx context.Context) (string, error)
	FindFn       func(ctx context.Context, selector string) (shoplens.Location, error)
	ClickFn      func(ctx context.Context, loc shoplens.Location) error
	TypeFn       func(ctx context.Context, loc shoplens.Location, text string) error
	PressFn      func(ctx context.Context, loc shoplens.Location, key string) error
	ScreenshotFn func(ctx context.Context) ([]byte, error)
	WaitStableFn func(ctx context.Context, d time.Duration) error
	CloseFn      func() error

	ClickInvoked int
	TypeInvoked  int
}

func (s *Session) Snapshot(ctx context.Context) (*shoplens.Node, error) {
	if s.SnapshotFn == nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "no snapshot configured")
	}
	return s.SnapshotFn(ctx)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	if s.HTMLFn == nil {
		return "", nil
	}
	return s.HTMLFn(ctx)
}

func (s *Session) Find(ctx context.Context, selector string) (shoplens.Location, error) {
	if s.FindFn == nil {
		return "", shoplens.Errorf(shoplens.ENOTFOUND, "no element matches %q", selector)
	}
	return s.FindFn(ctx, selector)
}

func (s *Session) Click(ctx context.Context, loc shoplens.Location) error {
	s.ClickInvoked++
	if s.ClickFn == nil {
		return nil
	}
	return s.ClickFn(ctx, loc)
}

func (s *Session) Type(ctx context.Context, loc shoplens.Location, text string) error {
	s.TypeInvoked++
	if s.TypeFn == nil {
		return nil
	}
	return s.TypeFn(ctx, loc, text)
}

func (s *Session) Press(ctx context.Context, loc shoplens.Location, key string) error {
	if s.PressFn == nil {
		return nil
	}
	return s.PressFn(ctx, loc, key)
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	if s.ScreenshotFn == nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "no screenshot configured")
	}
	return s.ScreenshotFn(ctx)
}

func (s *Session) WaitStable(ctx context.Context, d time.Duration) error {
	if s.WaitStableFn == nil {
		return nil
	}
	return s.WaitStableFn(ctx, d)
}

func (s *Session) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
