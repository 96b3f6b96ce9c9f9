package feasibility

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
)

// Ranked is one entry of a ranking.
type Ranked struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Score       int                `json:"score"`
	Feasibility ImagingFeasibility `json:"feasibility"`
}

// RankTargets scores every target at the default minimum altitude and sorts
// by descending score. Equal scores keep their input order.
func RankTargets(targets []catalog.Target, obs astro.Observer, t time.Time) []Ranked {
	return NewScorer(obs, astro.DefaultMinAltitude, t).Rank(targets)
}

// Rank scores targets with the scorer's settings, best first. Equal scores
// keep their input order.
func (s *Scorer) Rank(targets []catalog.Target) []Ranked {
	out := make([]Ranked, len(targets))
	for i, tg := range targets {
		out[i] = s.rank(tg)
	}
	sortRanked(out)
	return out
}

// RankTargetsParallel is RankTargets spread over a bounded worker pool.
// workers <= 0 uses GOMAXPROCS. The result is identical to RankTargets.
func RankTargetsParallel(ctx context.Context, targets []catalog.Target, obs astro.Observer, t time.Time, workers int) ([]Ranked, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := NewScorer(obs, astro.DefaultMinAltitude, t)
	out := make([]Ranked, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, tg := range targets {
		i, tg := i, tg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.rank(tg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortRanked(out)
	return out, nil
}

func (s *Scorer) rank(tg catalog.Target) Ranked {
	f := s.Score(tg.RA, tg.Dec)
	return Ranked{
		ID:          tg.ID,
		Name:        tg.DisplayName(),
		Score:       f.Score,
		Feasibility: f,
	}
}

func sortRanked(r []Ranked) {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Score > r[j].Score
	})
}
