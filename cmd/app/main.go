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

	"bloom-subscription-storefront/internal/config"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
	"bloom-subscription-storefront/internal/domain/ports/repository"
	"bloom-subscription-storefront/internal/infra/backend"
	"bloom-subscription-storefront/internal/infra/logging"
	"bloom-subscription-storefront/internal/infra/metrics"
	"bloom-subscription-storefront/internal/infra/payment"
	"bloom-subscription-storefront/internal/infra/session"
	"bloom-subscription-storefront/internal/infra/web"
	"bloom-subscription-storefront/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Session store (Redis, or in-memory when unconfigured) ----
	var sessions repository.SessionStore
	if cfg.Redis.URL != "" {
		redisClient, err := session.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient, cfg.Redis.TTL)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("session store: redis")
	} else {
		sessions = session.NewMemoryStore()
		logger.Warn().Msg("session store: in-memory (no redis.url configured)")
	}

	// ---- Payment tokenizer ----
	demo := cfg.DemoMode()
	var tokenizer adapter.PaymentTokenizer
	if demo {
		tokenizer = payment.NewNoopTokenizer()
		logger.Warn().Msg("payment provider unconfigured: checkout runs in demo mode")
	} else {
		tokenizer = payment.NewRecurlyTokenizer(cfg.Payment.Recurly.PublicKey, cfg.Payment.Recurly.APIBase)
	}

	// ---- Backend client ----
	subscribeBackend := backend.NewSubscribeClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(sessions, logger)
	checkoutUC := usecase.NewCheckoutUseCase(
		sessions,
		tokenizer,
		subscribeBackend,
		demo,
		cfg.Checkout.RedirectURL,
		cfg.Checkout.RedirectDelay,
		logger,
	)

	// ---- HTTP server ----
	srv := web.NewServer(planUC, checkoutUC, cfg.Admin.APIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("storefront listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}
