package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/verdora/plantmarket/internal/cache"
	"github.com/verdora/plantmarket/internal/config"
	"github.com/verdora/plantmarket/internal/db"
	"github.com/verdora/plantmarket/internal/es"
	"github.com/verdora/plantmarket/internal/httpserver"
	"github.com/verdora/plantmarket/internal/logging"
	csrfmw "github.com/verdora/plantmarket/internal/middleware/csrf"
	loggingmw "github.com/verdora/plantmarket/internal/middleware/logging"
	"github.com/verdora/plantmarket/internal/mykafka"
	"github.com/verdora/plantmarket/internal/repo"
	"github.com/verdora/plantmarket/internal/service"
	"github.com/verdora/plantmarket/internal/service/token"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers, []string{
			mykafka.TopicUserEvents,
			mykafka.TopicProductEvents,
			mykafka.TopicCartEvents,
			mykafka.TopicOrderEvents,
		})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	r := &repo.GormRepo{DB: database}
	tokens := &token.TokenService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}

	orderSvc := &service.OrderService{
		Repo:     r,
		Pricing:  service.ZeroPricing{},
		Currency: cfg.Currency,
	}
	if cfg.RedisAddr != "" {
		guard := cache.NewGuard(cfg.RedisAddr)
		defer guard.Close()
		orderSvc.Idem = guard
	}

	productHandler := &httpserver.ProductHTTP{
		Svc:      &service.CatalogService{Repo: r},
		Producer: producer,
		ESIndex:  cfg.ESIndex,
	}
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		productHandler.ES = client
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrfmw.Middleware(csrfmw.Config{
		Secure:    true,
		SkipPaths: []string{"/api/v1/register", "/api/v1/login"},
	}))

	deps := httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Repo: r, Tokens: tokens, Producer: producer},
		ProductHandler: productHandler,
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}, Producer: producer},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc, Producer: producer},
		Tokens:         tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
