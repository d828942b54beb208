package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"patungan/internal/adapter/repo"
	"patungan/internal/domain"
	"patungan/internal/events"
	"patungan/internal/http/handlers"
	"patungan/internal/http/httpapi"
	"patungan/internal/infra"
	"patungan/internal/infra/credentials"
	"patungan/internal/infra/geoip"
	"patungan/internal/middleware"
	"patungan/internal/payments"
	imageprovider "patungan/internal/providers/image"
	"patungan/internal/providers/prompt"
	"patungan/internal/quota"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	campaigns := repo.NewCampaignRepository(pool)
	donations := repo.NewDonationRepository(pool)
	guard := payments.NewGuard(campaigns)

	var counters domain.UsageCounterRepository = repo.NewUsageCounterRepository(pool)
	if cfg.QuotaStore == infra.QuotaStoreRedis {
		redisClient, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisClient.Close()
		counters = repo.NewUsageCounterRedis(redisClient)
	}
	ledger := quota.NewLedger(counters, map[domain.ResourceKind]int{
		domain.KindTextAssist:    cfg.QuotaTextAssistDaily,
		domain.KindImageGenerate: cfg.QuotaImageGenerateDaily,
	})

	var publisher payments.EventPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.DialPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect amqp")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}
	recorder := payments.NewRecorder(donations, publisher, logger)

	stripeRail, err := payments.NewStripeRail(guard, payments.StripeOptions{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.Currency,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
		MinAmount:     cfg.MinDonationAmount,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("stripe rail setup failed")
	}
	razorpayRail, err := payments.NewRazorpayRail(guard, payments.RazorpayOptions{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		MinAmount: cfg.MinDonationAmount,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("razorpay rail setup failed")
	}

	runner := infra.NewSQLRunner(pool, logger)

	// Operators may rotate the Gemini key through the DB instead of the env.
	if cfg.GeminiAPIKey == "" {
		if key, err := credentials.NewStore(runner).GeminiAPIKey(ctx); err == nil && key != "" {
			cfg.GeminiAPIKey = key
		}
	}

	enhancer := newEnhancer(cfg, logger)
	var images imageprovider.Generator
	if generator, err := imageprovider.NewGeminiGenerator(imageprovider.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.ImageModel,
		BaseURL: cfg.GeminiBaseURL,
	}); err != nil {
		logger.Warn().Err(err).Msg("image generation disabled")
	} else {
		images = generator
	}

	app := &handlers.App{
		SQL:       runner,
		Logger:    logger,
		Campaigns: campaigns,
		Guard:     guard,
		Stripe:    stripeRail,
		Razorpay:  razorpayRail,
		Recorder:  recorder,
		Quota:     ledger,
		Enhancer:  enhancer,
		Images:    images,
	}

	var lookup middleware.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   lookup,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newEnhancer(cfg *infra.Config, logger infra.Logger) prompt.Enhancer {
	fallback := prompt.NewStaticEnhancer()
	if cfg.PromptProvider != "gemini" || cfg.GeminiAPIKey == "" {
		logger.Info().Msg("text assist using static enhancer")
		return fallback
	}
	enhancer, err := prompt.NewGeminiEnhancer(prompt.GeminiOptions{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		BaseURL:  cfg.GeminiBaseURL,
		Fallback: fallback,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("gemini enhancer setup failed, using static")
		return fallback
	}
	return enhancer
}
