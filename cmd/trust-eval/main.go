package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betting-trust/internal/config"
	"github.com/yourusername/betting-trust/internal/database"
	"github.com/yourusername/betting-trust/internal/datasource"
	applogger "github.com/yourusername/betting-trust/internal/logger"
	"github.com/yourusername/betting-trust/internal/metrics"
	"github.com/yourusername/betting-trust/internal/repository"
	"github.com/yourusername/betting-trust/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile      string
	predictionsPath string
	outcomesPath    string
	fromDB          bool
	sinceDays       int
	seed            int64
	jsonOutput      bool
	saveRun         bool

	logger *logrus.Logger
	audit  *applogger.AuditLogger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
	system *service.TrustSystem
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&predictionsPath, "predictions", "p", "", "Prediction table (.csv or .parquet)")
	rootCmd.PersistentFlags().StringVarP(&outcomesPath, "outcomes", "o", "", "Game outcome table (.csv)")
	rootCmd.PersistentFlags().BoolVar(&fromDB, "from-db", false, "Load predictions and outcomes from PostgreSQL")
	rootCmd.PersistentFlags().IntVar(&sinceDays, "since-days", 365, "With --from-db, only load records from the last N days")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Bootstrap random seed (0 keeps the configured seed)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	systemCmd.Flags().BoolVar(&saveRun, "save", false, "Persist the system verdict to PostgreSQL")

	rootCmd.AddCommand(calibrationCmd, edgeCmd, correlationCmd, systemCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "trust-eval",
	Short: "Evaluate whether a betting model can be trusted",
	Long: `Loads historical predictions, bets and game outcomes and reports on
probability calibration, outcome correlations, betting edge and the overall
system verdict.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cmd.Flags().Changed("seed") && seed != 0 {
			cfg.Evaluation.Edge.Seed = seed
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return loadData(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer closeDependencies()
		if cfg == nil || !cfg.Metrics.Enabled {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			logger.WithError(err).Warn("Failed to push metrics")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trust-eval %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	var err error
	logger, err = applogger.New(applogger.Options{
		Level:      cfg.App.LogLevel,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	audit = applogger.NewAuditLogger(logger)

	logger.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
	}).Debug("Starting trust evaluation")

	if fromDB || saveRun {
		if !cfg.Database.Enabled {
			return errors.New("database access requested but database.enabled is false")
		}
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err = repository.NewRepositories(db.GetPool())
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
	}

	system = service.NewTrustSystem(cfg.Evaluation, logger)
	return nil
}

func closeDependencies() {
	if db != nil {
		db.Close()
		db = nil
	}
}

func loadData(ctx context.Context) error {
	if fromDB {
		since := time.Now().AddDate(0, 0, -sinceDays)
		_, err := system.LoadFromRepositories(ctx, repos, since)
		return err
	}

	if predictionsPath == "" && outcomesPath == "" {
		return errors.New("no input: pass --predictions and/or --outcomes, or --from-db")
	}

	predictions, err := readInput(predictionsPath, datasource.ReadPredictions)
	if err != nil {
		return err
	}
	outcomes, err := readInput(outcomesPath, datasource.ReadOutcomes)
	if err != nil {
		return err
	}

	_, err = system.LoadHistoricalOutcomes(inputSource(), predictions, outcomes)
	return err
}

func readInput[T any](path string, read func(string) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}

	rows, err := read(path)
	var rowErr *datasource.RowError
	if errors.As(err, &rowErr) {
		audit.LogRejectedRow(rowErr.Source, rowErr.Row, rowErr.Reason)
		metrics.RecordRejectedRow(rowErr.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func inputSource() string {
	switch {
	case predictionsPath != "" && outcomesPath != "":
		return predictionsPath + "," + outcomesPath
	case predictionsPath != "":
		return predictionsPath
	default:
		return outcomesPath
	}
}
