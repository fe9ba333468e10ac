package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discussify.com/api/internal/bootstrap"
	"discussify.com/api/internal/config"
	"discussify.com/api/internal/server"
	"discussify.com/api/pkg/async"
	"discussify.com/api/pkg/database"
	"discussify.com/api/pkg/eventbus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(cfg.DSN(), cfg.IsDevelopment())
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(db, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := database.ConnectRedis(cfg.RedisURL)

	events := eventbus.Noop()
	if len(cfg.KafkaBrokers) > 0 {
		events = eventbus.NewKafkaPublisher(eventbus.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		log.Printf("[events] publishing to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	pool := async.NewPool(cfg.SideEffectTimeout)
	srv := server.NewServer(cfg, db, redisClient, pool, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server exited with error: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	pool.Wait()

	if err := events.Close(); err != nil {
		log.Printf("[events] close: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("server stopped")
}
