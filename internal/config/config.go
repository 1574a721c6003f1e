package config

import (
	"fmt"

	"github.com/spf13/viper"

	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
)

// Config holds the full pipeline configuration
type Config struct {
	LogLevel   string
	DataPaths  DataPathsConfig
	Processing ProcessingConfig
	Kafka      KafkaConfig
	Warehouse  WarehouseConfig
	Monitor    MonitorConfig
}

// DataPathsConfig holds the data directory layout
type DataPathsConfig struct {
	Raw       string
	Processed string
	Curated   string
	Reports   string
}

// ProcessingConfig holds the aggregation tuning knobs
type ProcessingConfig struct {
	Partitions       int
	TopProductsLimit int
}

// KafkaConfig holds the run notification settings. Notifications are
// disabled when no brokers are configured.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// WarehouseConfig holds the Postgres warehouse settings. The warehouse
// loader is disabled when the DSN is empty.
type WarehouseConfig struct {
	DSN string
}

// MonitorConfig holds the run monitor HTTP settings. The monitor is
// disabled when the address is empty.
type MonitorConfig struct {
	Addr string
}

// requiredPaths are the data_paths keys the pipeline cannot run without
var requiredPaths = []string{
	"data_paths.raw",
	"data_paths.processed",
	"data_paths.curated",
	"data_paths.reports",
}

// Load reads the configuration file and returns a validated Config struct.
// Environment variables with the PIPELINE_ prefix override file values,
// e.g. PIPELINE_DATA_PATHS_RAW overrides data_paths.raw.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("PIPELINE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("processing.partitions", 8)
	v.SetDefault("processing.top_products_limit", 100)
	v.SetDefault("kafka.topic", "sales.pipeline.runs")

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewConfigError("config", fmt.Sprintf("cannot read %s", configPath)).WithCause(err)
	}

	for _, key := range requiredPaths {
		if v.GetString(key) == "" {
			return nil, apperrors.NewConfigError("config", fmt.Sprintf("missing required key %s", key))
		}
	}

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		DataPaths: DataPathsConfig{
			Raw:       v.GetString("data_paths.raw"),
			Processed: v.GetString("data_paths.processed"),
			Curated:   v.GetString("data_paths.curated"),
			Reports:   v.GetString("data_paths.reports"),
		},
		Processing: ProcessingConfig{
			Partitions:       v.GetInt("processing.partitions"),
			TopProductsLimit: v.GetInt("processing.top_products_limit"),
		},
		Kafka: KafkaConfig{
			Brokers: v.GetStringSlice("kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
		},
		Warehouse: WarehouseConfig{
			DSN: v.GetString("warehouse.dsn"),
		},
		Monitor: MonitorConfig{
			Addr: v.GetString("monitor.addr"),
		},
	}

	if cfg.Processing.Partitions <= 0 {
		return nil, apperrors.NewConfigError("config", "processing.partitions must be positive")
	}

	if cfg.Processing.TopProductsLimit <= 0 {
		return nil, apperrors.NewConfigError("config", "processing.top_products_limit must be positive")
	}

	return cfg, nil
}
