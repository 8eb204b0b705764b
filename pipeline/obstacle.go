package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/score"
)

// closeVocabulary matches the text of dismiss affordances on generic
// modals, consent banners and newsletter prompts.
var closeVocabulary = []string{"close", "dismiss", "×", "✕", "skip", "no thanks", "not now", "maybe later"}

// maxObstacleClicks bounds the vocabulary pass so a pathological page
// cannot keep the pipeline clicking.
const maxObstacleClicks = 3

// suppressObstacles clears transient UI obstructions before extraction:
// waits out the platform's bot-verification interstitial, clicks the
// platform's known intrusive prompts, then sweeps for generic dismiss
// affordances. Best effort throughout; failures are logged as EOBSTACLE
// and the pipeline always proceeds.
func (p *Pipeline) suppressObstacles(ctx context.Context, page *shoplens.PageContext, log *slog.Logger) {
	session := page.Session
	if session == nil {
		return
	}
	cfg := page.Platform.Config()

	if html, err := session.HTML(ctx); err == nil {
		for _, marker := range cfg.ChallengeMarkers {
			if strings.Contains(html, marker) {
				log.Warn("blocking challenge detected, waiting it out", "marker", marker)
				if err := session.WaitStable(ctx, challengeWait); err != nil {
					log.Warn("challenge wait", "error", obstacleErr(err))
				}
				break
			}
		}
	}

	for _, sel := range cfg.ObstacleSelectors {
		loc, err := session.Find(ctx, sel)
		if err != nil {
			continue
		}
		if err := session.Click(ctx, loc); err != nil {
			log.Debug("obstacle click failed", "selector", sel, "error", obstacleErr(err))
		}
	}

	snap, err := session.Snapshot(ctx)
	if err != nil {
		log.Debug("obstacle sweep skipped", "error", obstacleErr(err))
		return
	}
	sc := score.New(snap, nil)
	clicks := 0
	for _, word := range closeVocabulary {
		if clicks >= maxObstacleClicks {
			break
		}
		loc, ok := sc.ClickableByText(word)
		if !ok {
			continue
		}
		if err := session.Click(ctx, loc); err != nil {
			log.Debug("dismiss click failed", "text", word, "error", obstacleErr(err))
			continue
		}
		clicks++
	}
	if clicks > 0 {
		log.Debug("dismissed obstacles", "count", clicks)
	}
}

func obstacleErr(err error) error {
	return shoplens.Errorf(shoplens.EOBSTACLE, "%v", err)
}
