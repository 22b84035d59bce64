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
	"github.com/labstack/echo/v4/middleware"

	"github.com/tvanngo/clothes-shop/internal/config"
	"github.com/tvanngo/clothes-shop/internal/es"
	"github.com/tvanngo/clothes-shop/internal/events"
	"github.com/tvanngo/clothes-shop/internal/handlers"
	"github.com/tvanngo/clothes-shop/internal/httpserver"
	"github.com/tvanngo/clothes-shop/internal/logging"
	authmw "github.com/tvanngo/clothes-shop/internal/middleware/auth"
	loggingmw "github.com/tvanngo/clothes-shop/internal/middleware/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.OpenDB(context.Background(), cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	var searchHandler *handlers.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Auth:      &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, Producer: producer},
		Products:  &handlers.ProductHandler{DB: db, Producer: producer},
		Search:    searchHandler,
		Cart:      &handlers.CartHandler{DB: db, Producer: producer},
		Orders:    &handlers.OrderHandler{DB: db, Producer: producer},
		Vouchers:  &handlers.VoucherHandler{DB: db},
		Chat:      &handlers.ChatHandler{DB: db, Producer: producer},
		Uploads:   &handlers.UploadHandler{Dir: cfg.UploadDir},
		AuthMW:    &authmw.Middleware{DB: db, JWTSecret: cfg.JWTSecret},
		UploadDir: cfg.UploadDir,
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
