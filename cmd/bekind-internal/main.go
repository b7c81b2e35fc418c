package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bekind-internal/internal/common/database"
	"bekind-internal/internal/common/logger"
	commonmqtt "bekind-internal/internal/common/mqtt"
	commonredis "bekind-internal/internal/common/redis"
	"bekind-internal/internal/config"
	httpapi "bekind-internal/internal/http"
	"bekind-internal/internal/mqtt"
	"bekind-internal/internal/repository"
	"bekind-internal/internal/service"
	"bekind-internal/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "bekind-internal", cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 持久化网关
	var db *sql.DB
	var gateway *repository.Store
	switch cfg.Gateway {
	case config.GatewayPostgres:
		db, err = database.Open(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Failed to apply schema", zap.Error(err))
		}
		gateway = repository.NewPostgresStore(db)
	case config.GatewaySupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
			log.Fatal("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase gateway")
		}
		gateway = repository.NewSupabaseStore(repository.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, log))
	case config.GatewayMemory:
		log.Warn("Using in-memory gateway, data is lost on restart")
		gateway = repository.NewMemoryStore().Store()
	default:
		log.Fatal("Unknown gateway", zap.String("gateway", cfg.Gateway))
	}
	log.Info("Persistence gateway ready", zap.String("gateway", cfg.Gateway))

	// 会话：Redis 不可用时退回进程内存
	var kv store.KV
	redisClient, err := commonredis.Connect(ctx, &cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, sessions kept in memory", zap.Error(err))
		kv = store.NewMemoryKV()
	} else {
		kv = store.NewRedisKV(redisClient)
	}
	sessions := store.NewSessionStore(kv, cfg.Session.TTL)

	// 客户事件
	var events service.EventPublisher = service.NopPublisher{}
	var mqttClient *commonmqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = commonmqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Warn("MQTT unavailable, guest events disabled", zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
		} else {
			events = mqtt.NewGuestEventPublisher(mqttClient, cfg.MQTT.Topic, log)
			log.Info("Guest events enabled", zap.String("topic", cfg.MQTT.Topic))
		}
	}

	loc := cfg.Location()
	lookups := service.NewLookupService(gateway.Accounts, gateway.Houses, log)
	guests := service.NewGuestService(gateway.Guests, lookups, events, loc, log)
	accounts := service.NewAccountService(gateway.Accounts, sessions, loc, log)
	houses := service.NewHouseService(gateway.Houses, lookups, loc, log)
	auth := service.NewAuthService(gateway.Accounts, sessions, loc, log)
	analytics := service.NewAnalyticsService(gateway.Guests, loc, log)

	if err := auth.SeedAdmin(ctx, cfg.Seed.AdminPhone, cfg.Seed.AdminName); err != nil {
		log.Error("Failed to seed admin account", zap.Error(err))
	}

	router := httpapi.NewRouter(auth, httpapi.NewMetrics(), log)
	router.RegisterHealthRoutes()
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(auth, log))
	router.RegisterGuestRoutes(httpapi.NewGuestHandler(guests, lookups, log))
	router.RegisterAccountRoutes(httpapi.NewAccountHandler(accounts, log))
	router.RegisterHouseRoutes(httpapi.NewHouseHandler(houses, log))
	router.RegisterAnalyticsRoutes(httpapi.NewAnalyticsHandler(analytics, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	_ = commonredis.Close(redisClient)
	_ = database.Close(db)
}
