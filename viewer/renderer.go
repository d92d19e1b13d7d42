package viewer

import (
	"context"
	"fmt"
	"time"

	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUpstreamFetch = defs.ErrUpstreamFetch

// Renderer runs render cycles: fetch the snapshot, then build every chart.
type Renderer struct {
	Fetcher Fetcher
	Options BuildOptions

	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Now picks the reference day; defaults to time.Now.
	Now func() time.Time
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Renderer) fetch(ctx context.Context, cycle string) (*defs.Snapshot, error) {
	snap, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		r.Logger.Debug("unable to fetch snapshot", zap.String("cycle", cycle), zap.Error(err))
		r.Metrics.FetchFailed()
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	for k, n := range malformed(snap) {
		r.Logger.Debug("skipping malformed events", zap.String("cycle", cycle), zap.Stringer("kind", k), zap.Int("count", n))
		r.Metrics.Malformed(k.String(), n)
	}
	return snap, nil
}

// Snapshot fetches without rendering.
func (r *Renderer) Snapshot(ctx context.Context) (*defs.Snapshot, error) {
	return r.fetch(ctx, uuid.NewString())
}

func (r *Renderer) Render(ctx context.Context) (cs *ChartSet, err error) {
	cycle := uuid.NewString()
	start := time.Now()
	defer func() { r.Metrics.ObserveRender(time.Since(start), err) }()

	snap, err := r.fetch(ctx, cycle)
	if err != nil {
		return nil, err
	}

	cs, err = Build(snap, r.Options, r.now())
	if err != nil {
		return nil, fmt.Errorf("unable to build charts: %w", err)
	}

	r.Logger.Debug(
		"rendered charts",
		zap.String("cycle", cycle),
		zap.Int("days", len(cs.Days)),
		zap.Duration("took", time.Since(start)),
	)
	return cs, nil
}

// Charts is Render for callers that only serialize the result.
func (r *Renderer) Charts(ctx context.Context) (any, error) {
	return r.Render(ctx)
}

// malformed counts invalid events per kind; kinds without any are left out.
func malformed(snap *defs.Snapshot) map[defs.Kind]int {
	counts := make(map[defs.Kind]int)
	for _, k := range defs.Kinds {
		for _, e := range snap.Events(k) {
			if !e.Valid() {
				counts[k]++
			}
		}
	}
	return counts
}
