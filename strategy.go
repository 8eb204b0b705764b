package shoplens

import (
	"context"
	"time"
)

// PageContext is everything a strategy may consult about the page under
// extraction. Session and Root may be nil when rendering failed; strategies
// must degrade to whatever inputs remain rather than error.
type PageContext struct {
	URL      string
	Platform Platform
	Session  Session
	Root     *Node  // snapshot; nil when unavailable
	HTML     string // rendered DOM; "" when unavailable
}

// Strategy is one extraction approach. The orchestrator composes strategies
// as an ordered list and escalates down it; a strategy that cannot produce
// anything returns an error, which the orchestrator reads as an escalation
// signal, never as a pipeline failure.
type Strategy interface {
	// Name identifies the strategy in logs and state transitions.
	Name() string

	// Extract produces a partial record from the page. Fields the strategy
	// cannot resolve stay nil.
	Extract(ctx context.Context, page *PageContext) (*ProductRecord, error)
}

// ExtractOptions controls one pipeline run.
type ExtractOptions struct {
	// BypassCache skips the cache read (the result is still written).
	BypassCache bool

	// Variants maps variant type (size, color) to the desired value to
	// activate before extraction.
	Variants map[string]string

	// CheckDelivery runs the delivery-inquiry protocol with LocationCode.
	CheckDelivery bool
	LocationCode  string

	// Timeout bounds the whole pipeline run. Zero means no caller bound.
	Timeout time.Duration
}
