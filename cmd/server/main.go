package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/bookly/internal/apperr"
	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/config"
	"github.com/Skotchmaster/bookly/internal/es"
	"github.com/Skotchmaster/bookly/internal/handlers"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/token"
	httpserver "github.com/Skotchmaster/bookly/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
	}

	var producer *mail.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mail.NewProducer(configuration.KAFKA_ADDRESS)
	} else {
		logger.Warn("KAFKA_ADDRESS not set, outgoing mail is disabled")
		producer = &mail.Producer{}
	}

	bookHandler := handlers.NewBookHandler(nil, "books")
	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		bookHandler = handlers.NewBookHandler(client, "books")
	} else {
		logger.Warn("ES_URL not set, book search is disabled")
	}

	tokens := &token.Codec{Secret: []byte(configuration.JWT_SECRET)}
	links := &token.LinkCodec{Secret: []byte(configuration.URLSAFE_SECRET)}
	revoked := blocklist.NewRedis(redisClient)

	domain := configuration.DOMAIN
	if domain == "" {
		domain = "http://localhost:8080"
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			DB:        db,
			Tokens:    tokens,
			Links:     links,
			Blocklist: revoked,
			Producer:  producer,
			Domain:    domain,
		},
		BookHandler: bookHandler,
		Tokens:      tokens,
		Blocklist:   revoked,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

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

	if err := redisClient.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	log.Println("shutdown complete")
}
