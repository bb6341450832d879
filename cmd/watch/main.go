package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"solana-copytrade-lab/internal/normalize"
	"solana-copytrade-lab/internal/observability"
	"solana-copytrade-lab/internal/provider"
)

func main() {
	// Parse flags
	wallets := flag.String("wallets", "", "Comma-separated wallet addresses to watch (required)")
	endpoint := flag.String("ws-endpoint", "", "WebSocket endpoint (defaults to Helius using HELIUS_API_KEY)")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	_ = godotenv.Load()

	logger := newLogger(*verbose)
	defer logger.Sync()

	walletList := splitWallets(*wallets)
	if len(walletList) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --wallets is required")
		os.Exit(1)
	}
	for _, w := range walletList {
		if !normalize.ValidAddress(w) {
			fmt.Fprintf(os.Stderr, "Error: invalid wallet address %q\n", w)
			os.Exit(1)
		}
	}

	wsURL := *endpoint
	if wsURL == "" {
		apiKey := os.Getenv("HELIUS_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Error: --ws-endpoint or HELIUS_API_KEY is required")
			os.Exit(1)
		}
		wsURL = "wss://atlas-mainnet.helius-rpc.com/?api-key=" + apiKey
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Info("starting metrics server", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := provider.NewStreamClient(ctx, wsURL, walletList, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting stream: %v\n", err)
		os.Exit(1)
	}

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		stream.Close()

		select {
		case <-sigCh:
			os.Exit(1)
		case <-time.After(10 * time.Second):
			logger.Warn("shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	logger.Info("watching wallets", zap.Strings("wallets", walletList))
	watch(stream, walletList, logger)
}

// watch drains the stream, normalizing each payload per watched wallet and
// logging the swap legs it yields.
func watch(stream *provider.StreamClient, wallets []string, logger *zap.Logger) {
	normalizer := normalize.New()

	for payload := range stream.Transactions() {
		observability.DefaultMetrics.StreamMessagesReceived.Inc()
		observability.RecordPayloadParsed()

		for _, wallet := range wallets {
			events, diags := normalizer.Normalize(wallet, payload)
			for _, d := range diags {
				observability.RecordPayloadDropped(string(d.Kind))
				logger.Debug("diagnostic", zap.String("wallet", wallet), zap.String("detail", d.String()))
			}
			for _, ev := range events {
				observability.RecordEventNormalized(string(ev.Direction))
				observability.UpdateHighestSlot(ev.Slot)
				logger.Info("swap",
					zap.String("wallet", ev.Wallet),
					zap.String("mint", ev.Mint),
					zap.String("direction", string(ev.Direction)),
					zap.Float64("amount", ev.Amount),
					zap.String("base", string(ev.BaseCurrency)),
					zap.Float64("base_amount", ev.BaseAmount),
					zap.Int64("slot", ev.Slot),
					zap.String("signature", ev.Signature))
			}
		}
	}
	logger.Info("stream closed")
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

func splitWallets(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
