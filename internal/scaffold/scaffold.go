package scaffold

import (
	"os"
	"path/filepath"

	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

const initStage = "init"

// ConfigFileName is the starter configuration file written by Init
const ConfigFileName = "config.yaml"

var projectDirs = []string{
	"data/raw",
	"data/processed",
	"data/curated",
	"data/reports",
	"logs",
	"config",
}

const starterConfig = `log_level: info

data_paths:
  raw: data/raw
  processed: data/processed
  curated: data/curated
  reports: data/reports

processing:
  partitions: 8
  top_products_limit: 100

kafka:
  brokers: []
  topic: sales.pipeline.runs

warehouse:
  dsn: ""

monitor:
  addr: ""
`

// Init lays out the project directory tree under root and writes a starter
// configuration file. Running it again is safe and keeps an existing config.
func Init(root string, log logger.Logger) error {
	for _, dir := range projectDirs {
		path := filepath.Join(root, dir)

		if err := os.MkdirAll(path, 0755); err != nil {
			return apperrors.NewIOError(initStage, "cannot create "+path).WithCause(err)
		}
		log.Debug("Created directory", "path", path)
	}

	configPath := filepath.Join(root, "config", ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		log.Info("Keeping existing configuration", "path", configPath)
		return nil
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0644); err != nil {
		return apperrors.NewIOError(initStage, "cannot write "+configPath).WithCause(err)
	}

	log.Info("Project initialized", "root", root, "config", configPath)
	return nil
}
