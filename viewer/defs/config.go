package defs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const DefaultDB = "ichor"

// Intervals.
const (
	CorrelationWindow = 300000 * time.Millisecond
	FetchTimeout      = 5 * time.Second
	TimeoutInterval   = 2 * time.Second
)

// Glucose thresholds, mmol/L.
const (
	DefaultLow  = 4
	DefaultHigh = 10
)

const DefaultAddr = ":8080"

var DefaultPercentiles = []float64{10, 25, 75, 90}

type Config struct {
	Mongo    MongoConfig   `yaml:"mongo"`
	Glucose  GlucoseConfig `yaml:"glucose"`
	HTTP     HTTPConfig    `yaml:"http"`
	Charts   ChartsConfig  `yaml:"charts"`
	Timezone string        `yaml:"timezone"`
	Logger   *zap.Logger   `yaml:"_,omitempty"`
}

type GlucoseConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type HTTPConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"staticDir"`
}

type ChartsConfig struct {
	Percentiles []float64 `yaml:"percentiles"`
	// LookbackDays limits the fetch window; zero fetches everything.
	LookbackDays int `yaml:"lookbackDays"`
}

// SetDefaults fills zero values with their defaults.
func (c *Config) SetDefaults() {
	if c.Glucose.Low == 0 && c.Glucose.High == 0 {
		c.Glucose.Low, c.Glucose.High = DefaultLow, DefaultHigh
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = DefaultDB
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if len(c.Charts.Percentiles) == 0 {
		c.Charts.Percentiles = append([]float64(nil), DefaultPercentiles...)
	}
}

func (c *Config) Validate() error {
	if c.Glucose.Low >= c.Glucose.High {
		return fmt.Errorf("glucose low %.2f must be below high %.2f", c.Glucose.Low, c.Glucose.High)
	}
	for _, p := range c.Charts.Percentiles {
		if p < 0 || p > 100 {
			return fmt.Errorf("percentile %v outside [0, 100]", p)
		}
	}
	if c.Charts.LookbackDays < 0 {
		return fmt.Errorf("negative lookback: %d days", c.Charts.LookbackDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone, defaulting to the local one.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unable to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
