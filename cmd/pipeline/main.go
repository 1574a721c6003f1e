package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
	"github.com/vaidashi/sales-analytics-pipeline/internal/config"
	"github.com/vaidashi/sales-analytics-pipeline/internal/generator"
	"github.com/vaidashi/sales-analytics-pipeline/internal/monitor"
	"github.com/vaidashi/sales-analytics-pipeline/internal/notify"
	"github.com/vaidashi/sales-analytics-pipeline/internal/scaffold"
	"github.com/vaidashi/sales-analytics-pipeline/internal/storage"
	"github.com/vaidashi/sales-analytics-pipeline/internal/warehouse"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	// Optional .env for local overrides
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pipeline",
		Short: "Sales analytics pipeline CLI",
	}

	root.PersistentFlags().String("config", defaultConfigPath, "path to the configuration file")
	root.AddCommand(newRunCmd(), newGenerateCmd(), newInitCmd(), newWarehouseCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full analytics pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadConfig(cmd)

			if err != nil {
				return err
			}

			return runPipeline(cfg, l)
		},
	}
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic raw sales file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadConfig(cmd)

			if err != nil {
				return err
			}

			opts := generator.DefaultOptions(cfg.DataPaths.Raw)
			opts.Records, _ = cmd.Flags().GetInt("records")
			opts.Products, _ = cmd.Flags().GetInt("products")
			opts.Customers, _ = cmd.Flags().GetInt("customers")

			if cmd.Flags().Changed("seed") {
				opts.Seed, _ = cmd.Flags().GetInt64("seed")
			}

			path, count, err := generator.NewGenerator(opts, l).Generate()

			if err != nil {
				return err
			}

			l.Info("Generated sales data", "path", path, "records", count)
			return nil
		},
	}

	cmd.Flags().Int("records", 1000000, "number of order records to generate")
	cmd.Flags().Int("products", 1000, "number of distinct products")
	cmd.Flags().Int("customers", 10000, "number of distinct customers")
	cmd.Flags().Int64("seed", 0, "random seed for reproducible output")
	return cmd
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the project directory layout and a starter config",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("dir")
			return scaffold.Init(root, logger.NewLogger("info"))
		},
	}

	cmd.Flags().String("dir", ".", "project root to initialize")
	return cmd
}

func newWarehouseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warehouse",
		Short: "Load the most recent run's reports into the warehouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadConfig(cmd)

			if err != nil {
				return err
			}

			if cfg.Warehouse.DSN == "" {
				return fmt.Errorf("warehouse.dsn is not configured")
			}

			manifest, err := analytics.LoadLatestManifest(cfg.DataPaths.Reports)

			if err != nil {
				return err
			}

			db, err := warehouse.New(cfg.Warehouse.DSN, l)

			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.RunMigrations(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			return warehouse.NewLoader(db, l).LoadRun(ctx, manifest.RunResult)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)

	if err != nil {
		return nil, nil, err
	}

	return cfg, logger.NewLogger(cfg.LogLevel), nil
}

func runPipeline(cfg *config.Config, l logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	executor := analytics.NewExecutor(cfg.Processing.Partitions)
	sink := storage.NewCuratedWriter(cfg.DataPaths.Curated, l)

	var notifier analytics.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier, err := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, l)

		if err != nil {
			return err
		}
		defer kafkaNotifier.Close()

		notifier = kafkaNotifier
	}

	var tracker analytics.StatusTracker
	if cfg.Monitor.Addr != "" {
		t := monitor.NewTracker()
		server := monitor.NewServer(cfg.Monitor.Addr, t, l)
		server.Start()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				l.Error("Failed to shut down monitor server", "error", err)
			}
		}()

		tracker = t
	}

	engine := analytics.NewEngine(cfg, l, executor, sink, notifier, tracker)
	return engine.Run(ctx)
}
