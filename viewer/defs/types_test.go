package defs

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryUnmarshal(t *testing.T) {
	var entries []Entry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"timestamp": 0, "value": 5},
		{"timestamp": 60000, "value": "6.1"},
		{"timestamp": 1.5, "value": 7},
		{"timestamp": "60000", "value": 8},
		{"value": 9},
		{"timestamp": 120000, "value": null},
		{"timestamp": 180000, "value": {"mmol": 6}},
		null,
		"reading",
		{"timestamp": -1000, "value": -2.5e-1}
	]`), &entries))
	require.Len(t, entries, 10)

	assert.Equal(t, Entry{Timestamp: 0, Value: 5}, entries[0])
	assert.Equal(t, int64(60000), entries[1].Timestamp)
	assert.True(t, math.IsNaN(entries[1].Value))
	assert.Equal(t, MissingTimestamp, entries[2].Timestamp)
	assert.Equal(t, 7.0, entries[2].Value)
	assert.Equal(t, MissingTimestamp, entries[3].Timestamp)
	assert.Equal(t, MissingTimestamp, entries[4].Timestamp)
	assert.True(t, math.IsNaN(entries[5].Value))
	assert.True(t, math.IsNaN(entries[6].Value))
	assert.Equal(t, MissingTimestamp, entries[7].Timestamp)
	assert.Equal(t, MissingTimestamp, entries[8].Timestamp)
	assert.Equal(t, Entry{Timestamp: -1000, Value: -0.25}, entries[9])

	valid := 0
	for _, e := range entries {
		if e.Event(KindGlucose).Valid() {
			valid++
		}
	}
	assert.Equal(t, 2, valid)
}

func TestEventValid(t *testing.T) {
	assert.True(t, Event{Timestamp: 0, Value: 5}.Valid())
	assert.True(t, Event{Timestamp: 1, Value: MaxValue}.Valid())
	assert.False(t, Event{Timestamp: 1, Value: 1e308}.Valid())
	assert.False(t, Event{Timestamp: 1, Value: math.Inf(-1)}.Valid())
	assert.False(t, Event{Timestamp: 1, Value: math.NaN()}.Valid())
	assert.False(t, Event{Timestamp: MissingTimestamp, Value: 5}.Valid())
}
