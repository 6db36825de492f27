package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HDTN/controllers"
	"HDTN/middleware"
	"HDTN/pkg/cache"
	"HDTN/pkg/chat"
	"HDTN/pkg/config"
	"HDTN/pkg/logger"
	"HDTN/pkg/seed"
	"HDTN/pkg/services"
	"HDTN/pkg/store"
	"HDTN/pkg/tasks"
	tokenstore "HDTN/pkg/token"
	"HDTN/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("config",
		zap.String("app_env", cfg.AppEnv),
		zap.String("db_type", cfg.DBType),
		zap.Bool("gemini_enabled", cfg.IsGeminiEnabled),
		zap.Bool("gemini_key_present", cfg.GeminiAPIKey != ""),
		zap.String("gemini_model", cfg.GeminiModel))

	db, err := store.Open(store.Config{Type: cfg.DBType, DSN: cfg.DBDSN})
	if err != nil {
		return err
	}
	if n, err := seed.SeedUsers(ctx, db, cfg.SeedPassword); err != nil {
		return err
	} else if n > 0 {
		log.Info("seeded users", zap.Int("count", n))
	}

	var taskStore tasks.Store = tasks.NewGormStore(db)
	if cfg.DBType == "memory" {
		taskStore = tasks.NewMemoryStore()
	}
	taskSvc := tasks.NewService(taskStore, log)
	if err := taskSvc.Seed(ctx, seed.Tasks()); err != nil {
		return err
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Enabled: cfg.IsGeminiEnabled,
	}, log)
	if err != nil {
		return err
	}

	limiter := middleware.NewLimiter(middleware.LimitConfig{
		Window:          cfg.RateLimitWindow(),
		Capacity:        cfg.RateLimitCapacity,
		UserConcurrency: cfg.UserConcurrencyLimit,
		DuplicateWindow: cfg.DuplicateWindow(),
	})

	cache.SetMaxItems(cfg.TranslationCacheMaxItems)
	state := chat.NewState(nil)
	if err := state.Seed(cfg.CurrentUser, cfg.SeedPeer, time.Now()); err != nil {
		return err
	}
	chatSvc := chat.NewService(state, gemini, gemini, log, chat.Options{
		Cache:       cache.Default(),
		CacheTTL:    cfg.TranslationCacheTTL(),
		Concurrency: cfg.TranslationConcurrency,
		AcquireSlot: limiter.AcquireUserSlot,
	})

	opportunities, err := services.NewOpportunityService()
	if err != nil {
		return err
	}
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "http://127.0.0.1:" + cfg.Port
	}
	storage, err := services.NewAvatarStorage(cfg.UploadDir, baseURL+"/uploads", log)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := controllers.RegisterValidators(); err != nil {
		return err
	}
	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	routes.RegisterRoutes(r, routes.Deps{
		DB:            db,
		Auth:          middleware.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL, tokenstore.New()),
		Limiter:       limiter,
		Chat:          chatSvc,
		Tasks:         taskSvc,
		Gemini:        gemini,
		Opportunities: opportunities,
		Storage:       storage,
		Log:           log,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	chatSvc.Wait()
	return err
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
