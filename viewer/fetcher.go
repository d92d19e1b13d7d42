package viewer

import (
	"context"
	"fmt"
	"time"

	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/mg"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher returns everything one render cycle needs.
type Fetcher interface {
	Fetch(ctx context.Context) (*defs.Snapshot, error)
}

type FetcherStore interface {
	mg.GlucoseStore
	mg.CarbStore
	mg.InsulinStore
}

// StoreFetcher reads the snapshot straight from the event store.
type StoreFetcher struct {
	Store FetcherStore

	Logger *zap.Logger
	// Lookback bounds how far back events are read; zero reads everything.
	Lookback time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (f *StoreFetcher) window() (time.Time, time.Time) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	end := now()
	start := time.Unix(0, 0)
	if f.Lookback > 0 {
		start = end.Add(-f.Lookback)
	}
	return start, end
}

func (f *StoreFetcher) Fetch(ctx context.Context) (*defs.Snapshot, error) {
	start, end := f.window()
	snap := &defs.Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		trs, err := f.Store.ReadGlucose(ctx, start, end)
		if err != nil {
			return err
		}
		snap.BG = make([]defs.Entry, 0, len(trs))
		for _, tr := range trs {
			snap.BG = append(snap.BG, defs.Entry{Timestamp: tr.Time.UnixMilli(), Value: tr.Mmol})
		}
		return nil
	})
	g.Go(func() error {
		carbs, err := f.Store.ReadCarbs(ctx, start, end)
		if err != nil {
			return err
		}
		snap.Treatments.Carbs = make([]defs.Entry, 0, len(carbs))
		for _, c := range carbs {
			snap.Treatments.Carbs = append(snap.Treatments.Carbs, defs.Entry{Timestamp: c.Time.UnixMilli(), Value: c.Amount})
		}
		return nil
	})
	g.Go(func() error {
		ins, err := f.Store.ReadInsulin(ctx, start, end)
		if err != nil {
			return err
		}
		snap.Treatments.Insulin = make([]defs.Entry, 0, len(ins))
		for _, in := range ins {
			snap.Treatments.Insulin = append(snap.Treatments.Insulin, defs.Entry{Timestamp: in.Time.UnixMilli(), Value: in.Amount})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("unable to read events from store: %w", err)
	}

	f.Logger.Debug(
		"fetched snapshot",
		zap.Int("glucose", len(snap.BG)),
		zap.Int("carbs", len(snap.Treatments.Carbs)),
		zap.Int("insulin", len(snap.Treatments.Insulin)),
	)
	return snap, nil
}
