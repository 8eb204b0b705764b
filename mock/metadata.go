package mock

import (
	"context"

	"github.com/shoplens/shoplens"
)

var _ shoplens.HintParser = (*HintParser)(nil)

// HintParser is a mock implementation of shoplens.HintParser.
type HintParser struct {
	ParseFn func(html string) (*shoplens.Hints, error)
}

func (p *HintParser) Parse(html string) (*shoplens.Hints, error) {
	return p.ParseFn(html)
}

var _ shoplens.Detector = (*Detector)(nil)

// Detector is a mock implementation of shoplens.Detector.
type Detector struct {
	DetectFn func(html string) (shoplens.Platform, bool)
}

func (d *Detector) Detect(html string) (shoplens.Platform, bool) {
	return d.DetectFn(html)
}

var _ shoplens.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of shoplens.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error

	WaitInvoked int
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	l.WaitInvoked++
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
