// Package pipeline runs the multi-strategy extraction pipeline: render,
// obstacle suppression, variant activation, strategy escalation, delivery
// inquiry, normalization and caching for a single product URL.
package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shoplens/shoplens"
)

// Default bounds for renderer interactions. Every wait resolves to a
// degraded-but-complete result rather than a hang.
const (
	DefaultRenderTimeout = 45 * time.Second
	DefaultInferTimeout  = 60 * time.Second
	defaultSettle        = 2 * time.Second
	challengeWait        = 10 * time.Second
)

// Pipeline extracts ProductRecords from product page URLs. Renderer is
// required; every other collaborator is optional and its absence disables
// the corresponding tier (no Inferrer means no AI escalation, no Cache
// means every call extracts fresh, and so on).
type Pipeline struct {
	Renderer shoplens.Renderer
	Inferrer shoplens.Inferrer
	Cache    shoplens.RecordCache
	Limiter  shoplens.DomainLimiter

	// Converter turns rendered HTML into markdown for AI prompts.
	Converter shoplens.Converter

	// Content extracts boilerplate-free text for the heuristic
	// description pass.
	Content shoplens.ContentExtractor

	// Hints parses structured metadata (meta tags, JSON-LD) consumed by
	// the index strategy.
	Hints shoplens.HintParser

	// Detector confirms the platform from markup after rendering.
	Detector shoplens.Detector

	// Strategies overrides the default escalation list
	// (index, ai, heuristic). The last entry is the terminal fallback.
	Strategies []shoplens.Strategy

	// RenderOptions applies to every page render.
	RenderOptions shoplens.RenderOptions

	// RetryDelay is the pause before the single render retry.
	RetryDelay time.Duration

	Logger *slog.Logger
}

// Extract runs the whole pipeline for one URL. It always returns a
// normalized record when the URL maps to a supported platform, even
// alongside an EINCOMPLETE error: callers get the best partial result
// assembled before the failure.
func (p *Pipeline) Extract(ctx context.Context, rawURL string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
	platform, err := shoplens.DetectPlatform(rawURL)
	if err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log := p.log().With("run", uuid.NewString(), "url", rawURL, "platform", platform)

	if !opts.BypassCache && p.Cache != nil {
		if rec, err := p.Cache.Get(ctx, rawURL); err == nil {
			log.Debug("cache hit")
			return rec, nil
		}
	}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, domainOf(rawURL)); err != nil {
			return nil, shoplens.Errorf(shoplens.EINTERNAL, "rate limit wait: %v", err)
		}
	}

	page := &shoplens.PageContext{URL: rawURL, Platform: platform}
	session, err := p.render(ctx, rawURL, log)
	if err != nil {
		// The terminal strategy runs against an empty page so the caller
		// still gets a normalized record with the source tagged.
		log.Warn("render failed, degrading", "error", err)
	} else {
		defer session.Close()
		page.Session = session
		p.suppressObstacles(ctx, page, log)
		if len(opts.Variants) > 0 {
			if !p.selectVariants(ctx, page, opts.Variants, log) {
				log.Warn("not all requested variants activated", "variants", opts.Variants)
			}
		}
		p.capture(ctx, page, log)
	}

	rec := p.orchestrate(ctx, page, log)

	if opts.CheckDelivery {
		rec.Delivery = p.inquireDelivery(ctx, page, opts.LocationCode, log)
	}

	rec.Source = platform
	rec.OriginalURL = rawURL
	rec.Normalize()

	if err := rec.Validate(); err != nil {
		log.Warn("incomplete record", "error", err)
		return rec, err
	}
	if p.Cache != nil {
		if err := p.Cache.Put(ctx, rawURL, rec); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}
	log.Info("extracted", "complete", rec.Complete(), "images", len(rec.Images))
	return rec, nil
}

// render navigates to the URL, retrying once on failure.
func (p *Pipeline) render(ctx context.Context, url string, log *slog.Logger) (shoplens.Session, error) {
	opts := p.RenderOptions
	if opts.Timeout == 0 {
		opts.Timeout = DefaultRenderTimeout
	}
	session, err := p.Renderer.Render(ctx, url, opts)
	if err == nil {
		return session, nil
	}
	log.Warn("render failed, retrying once", "error", err)
	select {
	case <-ctx.Done():
		return nil, shoplens.Errorf(shoplens.ERENDER, "render canceled: %v", ctx.Err())
	case <-time.After(p.RetryDelay):
	}
	session, err = p.Renderer.Render(ctx, url, opts)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.ERENDER, "render failed after retry: %v", err)
	}
	return session, nil
}

// capture takes the snapshot and serialized DOM the strategies work from.
// Runs after obstacle suppression and variant activation so the captured
// tree reflects the final page state.
func (p *Pipeline) capture(ctx context.Context, page *shoplens.PageContext, log *slog.Logger) {
	root, err := page.Session.Snapshot(ctx)
	if err != nil {
		log.Warn("snapshot failed", "error", err)
	} else {
		page.Root = root
	}
	html, err := page.Session.HTML(ctx)
	if err != nil {
		log.Warn("dom serialization failed", "error", err)
	} else {
		page.HTML = html
	}
	if p.Detector != nil && page.HTML != "" {
		if detected, ok := p.Detector.Detect(page.HTML); ok && detected != page.Platform {
			log.Info("markup disagrees with url detection", "markup", detected)
			page.Platform = detected
		}
	}
}

func (p *Pipeline) log() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// truncate cuts s to at most max bytes without splitting a multibyte rune
// at the boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}

// sleep pauses for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
