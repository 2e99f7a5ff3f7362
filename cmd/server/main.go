package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/router"
	"lostfound/internal/services"
	"lostfound/internal/store"
	"lostfound/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	sugar := logger.Sugar()

	err = run(cfg, sugar)
	_ = logger.Sync()
	if err != nil {
		sugar.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}

// run 返回前总会关闭已打开的存储
func run(cfg *config.Config, sugar *zap.SugaredLogger) error {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.InsecureSecret {
		sugar.Warn("SESSION_SECRET not set, using built-in development secret")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		sugar.Warn("GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET not set, sign-in will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, driver, err := store.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("open %s item store: %w", driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := items.Close(closeCtx); err != nil {
			sugar.Warnw("failed to close item store", "error", err)
		}
	}()
	sugar.Infow("item store ready", "driver", driver)

	images, err := services.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("prepare upload dir %s: %w", cfg.UploadDir, err)
	}

	cache, err := utils.NewCache(256)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}

	itemService := services.NewItemService(items, images, cache, cfg.ListCacheTTL, sugar)
	provider := services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.SiteURL)

	engine, err := router.New(router.Deps{
		Items:         itemService,
		Provider:      provider,
		Logger:        sugar,
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		MaxUpload:     cfg.MaxUploadBytes(),
		SecureCookie:  strings.HasPrefix(cfg.SiteURL, "https://"),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "site", cfg.SiteURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		sugar.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
