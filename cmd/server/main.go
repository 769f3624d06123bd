package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpctl "nexus-market/internal/controllers/http"
	"nexus-market/internal/infra"
	mmysql "nexus-market/internal/infra/mysql"
	"nexus-market/internal/infra/rabbitmq"
	"nexus-market/internal/repository"
	filerepo "nexus-market/internal/repository/file"
	"nexus-market/internal/repository/memory"
	mysqlrepo "nexus-market/internal/repository/mysql"
	redisrepo "nexus-market/internal/repository/redis"
	"nexus-market/internal/services"
	"nexus-market/pkg/config"
	"nexus-market/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("nexus-market: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "nexus-market",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slots, err := openSlots(ctx, cfg)
	if err != nil {
		return fmt.Errorf("slot store: %w", err)
	}

	opts := []services.Option{services.WithLogger(logg)}
	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logg)
		if err != nil {
			slots.Close()
			return fmt.Errorf("init publisher: %w", err)
		}
		opts = append(opts, services.WithPublisher(publisher))
	}

	store, err := services.Open(ctx, repository.NewStateRepository(slots), opts...)
	if err != nil {
		slots.Close()
		if publisher != nil {
			publisher.Close()
		}
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "close store", err)
		}
	}()

	var assistant infra.AssistantInterface
	if cfg.Assistant.APIKey != "" {
		assistant = infra.NewAssistantClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.Timeout)
	} else {
		logg.Warn(ctx, "assistant API key not set; shopping assistant disabled", nil)
	}

	handler := httpctl.NewHandler(store, assistant, logg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpctl.RequestLogger(logg))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Infof(ctx, "starting nexus market", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server run: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func openSlots(ctx context.Context, cfg *config.Config) (repository.SlotStore, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case config.BackendFile:
		return filerepo.NewSlotStore(cfg.Store.Dir)
	case config.BackendMemory:
		return memory.NewSlotStore(), nil
	case config.BackendMySQL:
		db, err := mmysql.NewMySQL(cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("db: connect: %w", err)
		}
		return mysqlrepo.NewSlotStore(db), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisrepo.NewSlotStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
