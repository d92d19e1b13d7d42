package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"cgmview/viewer/defs"

	"gopkg.in/yaml.v2"
)

func main() {
	glucoseLow := flag.Float64("glucose-low", defs.DefaultLow, "lower bound for glucose")
	glucoseHigh := flag.Float64("glucose-high", defs.DefaultHigh, "upper bound for glucose")

	mongoUsername := flag.String("mongo-username", "admin", "mongo username")
	mongoPassword := flag.String("mongo-password", "password", "mongo password")

	addr := flag.String("addr", defs.DefaultAddr, "http listen address")
	staticDir := flag.String("static-dir", "/srv/cgmview/static", "page assets")
	percentiles := flag.String("percentiles", "10,25,75,90", "comma separated percentile bands")
	lookback := flag.Int("lookback-days", 90, "days of history to chart")
	timezone := flag.String("timezone", "America/Toronto", "timezone for day boundaries")

	flag.Parse()

	bands, err := parsePercentiles(*percentiles)
	if err != nil {
		log.Fatal(err)
	}

	cfg := defs.Config{
		Mongo: defs.MongoConfig{
			URI:      "mongodb://mongo:27017",
			Username: *mongoUsername,
			Password: *mongoPassword,
			Database: defs.DefaultDB,
		},
		Glucose: defs.GlucoseConfig{
			Low:  *glucoseLow,
			High: *glucoseHigh,
		},
		HTTP: defs.HTTPConfig{
			Addr:      *addr,
			StaticDir: *staticDir,
		},
		Charts: defs.ChartsConfig{
			Percentiles:  bands,
			LookbackDays: *lookback,
		},
		Timezone: *timezone,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		log.Fatal(err)
	}

	err = os.WriteFile("docker-config.yaml", data, 0666)
	if err != nil {
		log.Fatal(err)
	}

	envVars := map[string]string{
		"MONGO_USERNAME": *mongoUsername,
		"MONGO_PASSWORD": *mongoPassword,
	}
	keys := make([]string, 0, len(envVars))
	for k := range envVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	envString := ""
	for _, k := range keys {
		envString += fmt.Sprintln(k + "=" + envVars[k])
	}

	err = os.WriteFile("cgmview.env", []byte(envString), 0666)
	if err != nil {
		log.Fatal(err)
	}
}

func parsePercentiles(s string) ([]float64, error) {
	var bands []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		p, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse percentile %q: %w", f, err)
		}
		bands = append(bands, p)
	}
	return bands, nil
}
