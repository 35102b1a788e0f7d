package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/bangs"
	"github.com/wayfind/metasearch-core/cache"
	"github.com/wayfind/metasearch-core/engine"
	"github.com/wayfind/metasearch-core/httpapi"
	"github.com/wayfind/metasearch-core/instant"
	"github.com/wayfind/metasearch-core/knowledge"
	"github.com/wayfind/metasearch-core/kv"
	"github.com/wayfind/metasearch-core/kv/mem"
	kvredis "github.com/wayfind/metasearch-core/kv/redis"
	"github.com/wayfind/metasearch-core/metasearch"
	"github.com/wayfind/metasearch-core/pipeline"
	"github.com/wayfind/metasearch-core/records"
	"github.com/wayfind/metasearch-core/suggest"
)

func main() {
	addr := flag.String("addr", env("SEARCH_ADDR", ":8080"), "address to listen on")
	redisAddr := flag.String("redis", env("SEARCH_REDIS_ADDR", ""), "redis address (SEARCH_REDIS_ADDR); empty uses the in-memory KV backend")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("metasearch-core")
		fmt.Println("\nUsage: metasearch-core [options]")
		fmt.Println("\nOptions:")
		fmt.Println("  --addr    Address to listen on (default :8080, env SEARCH_ADDR)")
		fmt.Println("  --redis   Redis address for the KV backend (env SEARCH_REDIS_ADDR)")
		fmt.Println("  --help    Show this help message")
		fmt.Println("\nDescription:")
		fmt.Println("  Serves a privacy-preserving metasearch JSON API: aggregated web")
		fmt.Println("  search, instant answers, a knowledge panel, bangs, and the")
		fmt.Println("  settings/preferences/lenses/history record store.")
		os.Exit(0)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	ctx := context.Background()

	store, err := openStore(ctx, *redisAddr, logger)
	if err != nil {
		log.Fatalf("failed to open kv store: %v", err)
	}

	cacheStore := cache.New(store)
	bangStore := bangs.NewStore(store)
	recordStore := records.New(store)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	currencyResolver := instant.NewCurrencyResolver(httpClient, store, logger)
	instantEngine := instant.New(httpClient, currencyResolver, logger)
	knowledgeEngine := knowledge.New(httpClient, cacheStore, logger)
	suggestSvc := suggest.New(httpClient, cacheStore, logger)

	executor := engine.NewExecutor(logger)
	vqd := engine.NewVQDFetcher()
	orchestrator := metasearch.New(engine.DefaultEngines(), executor, vqd)

	p := pipeline.New(bangStore, cacheStore, instantEngine, knowledgeEngine, orchestrator, recordStore, logger)
	api := httpapi.New(p, suggestSvc, instantEngine, knowledgeEngine, bangStore, recordStore, logger)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.Mux(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	sigCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
	logger.Info().Msg("stopped")
}

// openStore wires the KV backend: go-redis when redisAddr is set, the
// in-memory map otherwise (§6.3 implementation note).
func openStore(ctx context.Context, redisAddr string, logger zerolog.Logger) (kv.Store, error) {
	if redisAddr == "" {
		logger.Info().Msg("using in-memory kv store")
		return mem.New(), nil
	}
	logger.Info().Str("addr", redisAddr).Msg("connecting to redis kv store")
	return kvredis.New(ctx, redisAddr)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
