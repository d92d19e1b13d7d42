package defs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `
mongo:
  uri: mongodb://mongo:27017
  username: admin
  password: password
glucose:
  low: 3.9
  high: 9
http:
  staticDir: /srv/static
charts:
  lookbackDays: 30
timezone: America/Toronto
`

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &cfg))
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, DefaultDB, cfg.Mongo.Database)
	assert.Equal(t, GlucoseConfig{Low: 3.9, High: 9}, cfg.Glucose)
	assert.Equal(t, HTTPConfig{Addr: DefaultAddr, StaticDir: "/srv/static"}, cfg.HTTP)
	assert.Equal(t, DefaultPercentiles, cfg.Charts.Percentiles)
	assert.Equal(t, 30, cfg.Charts.LookbackDays)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Toronto", loc.String())
}

func TestConfigEmpty(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, GlucoseConfig{Low: DefaultLow, High: DefaultHigh}, cfg.Glucose)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestConfigValidate(t *testing.T) {
	for name, cfg := range map[string]Config{
		"inverted thresholds": {Glucose: GlucoseConfig{Low: 10, High: 4}},
		"percentile bounds":   {Charts: ChartsConfig{Percentiles: []float64{-1}}},
		"negative lookback":   {Charts: ChartsConfig{LookbackDays: -1}},
		"unknown timezone":    {Timezone: "Mars/Olympus_Mons"},
	} {
		cfg.SetDefaults()
		assert.Error(t, cfg.Validate(), name)
	}
}
