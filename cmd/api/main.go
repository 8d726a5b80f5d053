package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/shilpsetu/aureum/internal/adapter/repo"
	"github.com/shilpsetu/aureum/internal/analytics"
	"github.com/shilpsetu/aureum/internal/auth"
	"github.com/shilpsetu/aureum/internal/cache"
	"github.com/shilpsetu/aureum/internal/enhance"
	"github.com/shilpsetu/aureum/internal/http/handlers"
	httpapi "github.com/shilpsetu/aureum/internal/http"
	"github.com/shilpsetu/aureum/internal/imaging"
	"github.com/shilpsetu/aureum/internal/infra"
	"github.com/shilpsetu/aureum/internal/infra/credentials"
	"github.com/shilpsetu/aureum/internal/infra/geoip"
	"github.com/shilpsetu/aureum/internal/middleware"
	copywriter "github.com/shilpsetu/aureum/internal/providers/copy"
	"github.com/shilpsetu/aureum/internal/providers/genai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	// Shared cache: redis when configured, in-process otherwise.
	var store cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("api: redis connection failed")
		}
		defer redisCache.Close()
		store = redisCache
	} else {
		mem := cache.NewMemory()
		defer mem.Stop()
		store = mem
		logger.Warn().Msg("api: REDIS_ADDR not set, using in-process cache")
	}

	sessions, err := auth.NewManager(cfg.SessionSecret, cfg.SessionTTL, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: session manager init failed")
	}

	// The API key comes from the environment, falling back to the
	// credentials table so keys can be rotated without a redeploy.
	geminiKey := strings.TrimSpace(cfg.GeminiAPIKey)
	if geminiKey == "" {
		key, err := credentials.NewStore(pool).GeminiAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("api: credentials store lookup failed")
		} else {
			geminiKey = key
		}
	}
	if geminiKey == "" {
		logger.Fatal().Msg("api: gemini api key missing (set GEMINI_API_KEY or seed the credentials table)")
	}

	gemini, err := genai.NewClient(genai.Options{
		APIKey:     geminiKey,
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: gemini client init failed")
	}

	products := repo.NewProductRepository(pool)
	artists := repo.NewArtistRepository(pool)
	snapshots := repo.NewSnapshotRepository(pool)

	insights := analytics.NewService(products, artists, snapshots, store, gemini, logger)
	refresher := analytics.NewRefresher(insights, 0, logger)

	pace := rate.NewLimiter(rate.Every(time.Minute/time.Duration(max(cfg.EnhanceRatePerMin, 1))), 1)
	enhancer := enhance.NewOrchestrator(enhance.Options{
		Client:      gemini,
		Pace:        pace,
		CallTimeout: cfg.EnhanceTimeout,
		Logger:      logger,
	})

	var countryLookup middleware.CountryLookup
	if cfg.GeoIPDBPath != "" {
		resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("api: geoip database unavailable, locale falls back to headers")
		} else {
			defer resolver.Close()
			countryLookup = resolver.CountryCode
		}
	}

	app := &handlers.App{
		Logger:     logger,
		Products:   products,
		Artists:    artists,
		Sessions:   sessions,
		Enhancer:   enhancer,
		Guard:      imaging.NewGuard(),
		Insights:   insights,
		Refresher:  refresher,
		Copywriter: copywriter.NewGeminiCopywriter(gemini, copywriter.NewStaticCopywriter(), logger),
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimitPerMin,
		CountryLookup:  countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)
	// in-flight analytics refreshes must finish before the pool closes
	server.OnShutdown(refresher.Wait)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
