package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"cgmview/viewer"
	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/client"
	"cgmview/viewer/pkg/desc"

	"go.uber.org/zap"
)

func main() {
	url := flag.String("url", "http://localhost"+defs.DefaultAddr, "viewer base url")
	timezone := flag.String("tz", "", "timezone for day boundaries, defaults to local")
	low := flag.Float64("glucose-low", defs.DefaultLow, "lower bound for glucose")
	high := flag.Float64("glucose-high", defs.DefaultHigh, "upper bound for glucose")
	days := flag.Int("days", 7, "number of days to list")
	verbose := flag.Bool("v", false, "debug logging")

	flag.Parse()

	zcfg := zap.NewDevelopmentConfig()
	if !*verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, _ := zcfg.Build()
	defer logger.Sync()

	cfg := defs.Config{
		Glucose:  defs.GlucoseConfig{Low: *low, High: *high},
		Timezone: *timezone,
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid flags", zap.Error(err))
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("unable to load timezone", zap.Error(err))
	}

	r := &viewer.Renderer{
		Fetcher: client.New(*url, logger),
		Options: viewer.OptionsFromConfig(cfg, loc),
		Logger:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*defs.FetchTimeout)
	defer cancel()

	cs, err := r.Render(ctx)
	if err != nil {
		logger.Fatal("unable to render report", zap.Error(err))
	}

	d := &desc.Descriptor{Limit: *days}
	fmt.Printf("report %s\n", time.Now().In(loc).Format("2006/01/02 15:04"))
	fmt.Println(d.Describe(cs))
}
