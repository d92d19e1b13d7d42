package main

import (
	"flag"
	"os"

	"cgmview/viewer"
	"cgmview/viewer/defs"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "f", "config.yaml", "config file")
	flag.Parse()
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	config := defs.Config{Logger: logger}

	file, err := os.ReadFile(configFile)
	if err != nil {
		logger.Fatal("unable to read config file", zap.String("file", configFile), zap.Error(err))
	}

	if err = yaml.Unmarshal(file, &config); err != nil {
		logger.Fatal("unable to parse config file", zap.String("file", configFile), zap.Error(err))
	}

	logger.Debug("loaded config file", zap.String("file", configFile))

	s, err := viewer.New(config)
	if err != nil {
		logger.Fatal("unable to set up server", zap.Error(err))
	}

	if err := s.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
