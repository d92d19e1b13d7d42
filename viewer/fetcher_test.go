package viewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cgmview/viewer/defs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	glucose []defs.TransformedReading
	carbs   []defs.Carb
	insulin []defs.Insulin
	err     error

	start, end time.Time
}

func (s *fakeStore) ReadGlucose(_ context.Context, start, end time.Time) ([]defs.TransformedReading, error) {
	s.start, s.end = start, end
	return s.glucose, s.err
}

func (s *fakeStore) ReadCarbs(_ context.Context, _, _ time.Time) ([]defs.Carb, error) {
	return s.carbs, nil
}

func (s *fakeStore) ReadInsulin(_ context.Context, _, _ time.Time) ([]defs.Insulin, error) {
	return s.insulin, nil
}

func TestStoreFetcher(t *testing.T) {
	now := time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		glucose: []defs.TransformedReading{
			{Time: now.Add(-time.Hour), Mmol: 6.1, Trend: "Flat"},
			{Time: now, Mmol: 6.4, Trend: "FortyFiveUp"},
		},
		carbs:   []defs.Carb{{Time: now, Amount: 45}},
		insulin: []defs.Insulin{{Time: now, Type: "rapid", Amount: 4.5}},
	}
	f := &StoreFetcher{Store: store, Logger: zap.NewNop(), Lookback: 24 * time.Hour, Now: func() time.Time { return now }}

	snap, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []defs.Entry{
		{Timestamp: now.Add(-time.Hour).UnixMilli(), Value: 6.1},
		{Timestamp: now.UnixMilli(), Value: 6.4},
	}, snap.BG)
	assert.Equal(t, []defs.Entry{{Timestamp: now.UnixMilli(), Value: 45}}, snap.Treatments.Carbs)
	assert.Equal(t, []defs.Entry{{Timestamp: now.UnixMilli(), Value: 4.5}}, snap.Treatments.Insulin)

	assert.Equal(t, now.Add(-24*time.Hour), store.start)
	assert.Equal(t, now, store.end)
}

func TestStoreFetcherNoLookback(t *testing.T) {
	store := &fakeStore{}
	f := &StoreFetcher{Store: store, Logger: zap.NewNop()}

	snap, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.BG)
	assert.Equal(t, time.Unix(0, 0), store.start)
}

func TestStoreFetcherError(t *testing.T) {
	store := &fakeStore{err: errors.New("server selection timeout")}
	f := &StoreFetcher{Store: store, Logger: zap.NewNop()}

	snap, err := f.Fetch(context.Background())
	assert.Nil(t, snap)
	assert.ErrorContains(t, err, "server selection timeout")
}
