package pipeline

import (
	"context"
	"log/slog"

	"github.com/shoplens/shoplens"
)

// Orchestrator states. Every extraction passes through this machine; the
// merge rule in Merge is the single source of truth for field precedence.
type state string

const (
	stateIndexed        state = "indexed"
	stateIndexExtracted state = "index_extracted"
	stateEscalated      state = "escalated"
	stateAIExtracted    state = "ai_extracted"
	stateMerged         state = "merged"
	stateBasicHeuristic state = "basic_heuristic"
	stateComplete       state = "complete"
)

// strategies returns the escalation list: cheap index-based scoring first,
// then the AI service, then the terminal visual-heuristic fallback.
func (p *Pipeline) strategies() []shoplens.Strategy {
	if p.Strategies != nil {
		return p.Strategies
	}
	return []shoplens.Strategy{
		&IndexStrategy{Hints: p.Hints},
		&AIStrategy{Inferrer: p.Inferrer, Converter: p.Converter},
		&HeuristicStrategy{Content: p.Content},
	}
}

// orchestrate runs the strategy state machine. A strategy error is an
// escalation signal, never a pipeline failure; the returned record may be
// incomplete but is never nil.
func (p *Pipeline) orchestrate(ctx context.Context, page *shoplens.PageContext, log *slog.Logger) *shoplens.ProductRecord {
	strategies := p.strategies()
	st := stateIndexed
	var rec *shoplens.ProductRecord
	failed := false // the previous tier produced nothing

	for i, strategy := range strategies {
		if rec != nil && rec.Complete() {
			break
		}
		// The terminal fallback only runs when a tier above it failed
		// outright; a merged-but-incomplete record stands on its own.
		if i == len(strategies)-1 && rec != nil && !failed {
			break
		}

		partial, err := strategy.Extract(ctx, page)
		if err != nil || partial == nil {
			log.Info("strategy produced nothing, escalating",
				"strategy", strategy.Name(), "state", string(st), "error", err)
			st = stateEscalated
			failed = true
			continue
		}
		failed = false

		if rec == nil {
			rec = partial
			st = stateIndexExtracted
			if i == len(strategies)-1 {
				st = stateBasicHeuristic
			}
		} else {
			st = stateAIExtracted
			rec = Merge(rec, partial)
			st = stateMerged
		}
		log.Debug("strategy applied", "strategy", strategy.Name(), "state", string(st), "complete", rec.Complete())
	}

	if rec == nil {
		rec = &shoplens.ProductRecord{}
		st = stateBasicHeuristic
	}
	if rec.Complete() {
		st = stateComplete
	}
	log.Debug("orchestration finished", "state", string(st))
	return rec
}
