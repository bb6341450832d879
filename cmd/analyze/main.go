package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"solana-copytrade-lab/internal/analyzer"
	"solana-copytrade-lab/internal/metrics"
	"solana-copytrade-lab/internal/observability"
	"solana-copytrade-lab/internal/provider"
	"solana-copytrade-lab/internal/reporting"
	"solana-copytrade-lab/internal/storage"
	chstore "solana-copytrade-lab/internal/storage/clickhouse"
	"solana-copytrade-lab/internal/storage/migrations"
	pgstore "solana-copytrade-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	wallet := flag.String("wallet", "", "Wallet address to analyze (required)")
	targetWallet := flag.String("target-wallet", "", "Target wallet for copy-latency analysis")
	inputFile := flag.String("input-file", "", "Read payloads from a JSON file instead of the provider")
	targetFile := flag.String("target-input-file", "", "Read target wallet payloads from a JSON file")
	cacheDir := flag.String("cache-dir", ".cache", "Directory for cached transaction history")
	outputDir := flag.String("output-dir", "output", "Output directory for report and CSV files")
	latencyWindow := flag.Duration("latency-window", 0, "Max target-to-copy delay (0 selects the default)")
	matchedOnly := flag.Bool("matched-only", false, "Restrict performance metrics to copied tokens")
	outlierMin := flag.Float64("outlier-min", 0, "Lower pnl_pct bound for the outlier filter")
	outlierMax := flag.Float64("outlier-max", 0, "Upper pnl_pct bound for the outlier filter")
	outlierEnabled := flag.Bool("outlier-filter", false, "Enable the pnl_pct outlier filter")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for trade persistence")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for report persistence")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Loads HELIUS_API_KEY and friends when a .env is present.
	_ = godotenv.Load()

	logger := newLogger(*verbose)
	defer logger.Sync()

	if *wallet == "" {
		fmt.Fprintln(os.Stderr, "Error: --wallet is required")
		os.Exit(1)
	}

	ctx := context.Background()

	a, err := analyzer.New(analyzer.Options{
		Config: analyzer.Config{
			Wallet:              *wallet,
			TargetWallet:        *targetWallet,
			LatencyWindow:       *latencyWindow,
			FilterToMatchedOnly: *matchedOnly,
			Outlier: metrics.OutlierFilter{
				MinPnlPct: *outlierMin,
				MaxPnlPct: *outlierMax,
				Enabled:   *outlierEnabled,
			},
		},
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	input, err := loadInput(ctx, *wallet, *targetWallet, *inputFile, *targetFile, *cacheDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		os.Exit(1)
	}

	started := time.Now()
	result, err := a.Run(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running analysis: %v\n", err)
		os.Exit(1)
	}
	observability.RecordAnalysisRun(time.Since(started).Seconds())

	report := reporting.NewGenerator().Generate(a.Config(), result)
	result.Report.GeneratedAt = report.GeneratedAt.UnixMilli()
	if err := reporting.WriteFiles(*outputDir, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
	observability.DefaultMetrics.ReportsGenerated.Inc()

	if *postgresDSN != "" {
		if err := persistTrades(ctx, *postgresDSN, result, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting to postgres: %v\n", err)
			os.Exit(1)
		}
	}
	if *clickhouseDSN != "" {
		if err := persistReport(ctx, *clickhouseDSN, result, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting to clickhouse: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println(reporting.RenderText(report))
	fmt.Println("Output files:")
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.ReportFileName)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.TradesCSVFileName)
	if len(result.LatencyRecords) > 0 {
		fmt.Printf("  - %s/%s\n", *outputDir, reporting.LatencyCSVFileName)
	}
}

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// loadInput assembles payloads from a local file or from Helius through the
// file cache. Target payloads follow the same path when a target is set.
func loadInput(ctx context.Context, wallet, targetWallet, inputFile, targetFile, cacheDir string, logger *zap.Logger) (analyzer.Input, error) {
	var input analyzer.Input

	var source provider.TransactionSource
	if inputFile == "" || (targetWallet != "" && targetFile == "") {
		var err error
		source, err = newProviderSource(cacheDir, logger)
		if err != nil {
			return input, err
		}
	}

	var err error
	input.Payloads, err = loadPayloads(ctx, source, wallet, inputFile)
	if err != nil {
		return input, fmt.Errorf("wallet %s: %w", wallet, err)
	}

	if targetWallet != "" {
		input.TargetPayloads, err = loadPayloads(ctx, source, targetWallet, targetFile)
		if err != nil {
			return input, fmt.Errorf("target wallet %s: %w", targetWallet, err)
		}
	}
	return input, nil
}

func newProviderSource(cacheDir string, logger *zap.Logger) (provider.TransactionSource, error) {
	apiKey := os.Getenv("HELIUS_API_KEY")
	if apiKey == "" {
		return nil, errors.New("HELIUS_API_KEY is not set; use --input-file for offline runs")
	}
	cache, err := provider.NewFileCache(cacheDir)
	if err != nil {
		return nil, err
	}
	return &provider.CachingSource{
		Cache:    cache,
		Upstream: provider.NewHeliusClient(apiKey, provider.WithLogger(logger)),
	}, nil
}

func loadPayloads(ctx context.Context, source provider.TransactionSource, wallet, file string) ([]json.RawMessage, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var payloads []json.RawMessage
		if err := json.Unmarshal(data, &payloads); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		return payloads, nil
	}
	return source.FetchTransactions(ctx, wallet)
}

// persistTrades writes matched trades and latency records to PostgreSQL.
// Reruns over the same history hit the append-only constraint; duplicates
// are logged and skipped rather than treated as failures.
func persistTrades(ctx context.Context, dsn string, result *analyzer.Result, logger *zap.Logger) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	tradeStore := pgstore.NewMatchedTradeStore(pool)
	for _, trade := range result.Trades {
		if err := tradeStore.Insert(ctx, trade); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				logger.Debug("trade already persisted", zap.String("trade_id", trade.TradeID))
				continue
			}
			return err
		}
	}

	latencyStore := pgstore.NewLatencyRecordStore(pool)
	for _, record := range result.LatencyRecords {
		if err := latencyStore.Insert(ctx, record); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				logger.Debug("latency record already persisted", zap.String("record_id", record.RecordID))
				continue
			}
			return err
		}
	}

	logger.Info("persisted run to postgres",
		zap.Int("trades", len(result.Trades)),
		zap.Int("latency_records", len(result.LatencyRecords)))
	return nil
}

// persistReport appends the performance report to ClickHouse.
func persistReport(ctx context.Context, dsn string, result *analyzer.Result, logger *zap.Logger) error {
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	defer conn.Close()

	store := chstore.NewReportStore(conn)
	if err := store.Insert(ctx, result.Report); err != nil {
		return err
	}
	logger.Info("persisted report to clickhouse", zap.String("wallet", result.Report.Wallet))
	return nil
}
