package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/stadium-entry/internal/config"
	"github.com/iliyamo/stadium-entry/internal/database"
	"github.com/iliyamo/stadium-entry/internal/handler"
	"github.com/iliyamo/stadium-entry/internal/queue"
	"github.com/iliyamo/stadium-entry/internal/repository"
	"github.com/iliyamo/stadium-entry/internal/router"
	"github.com/iliyamo/stadium-entry/internal/service"
)

func main() {
	cfg := config.Load()

	users, stadiums, tickets := openStores(cfg)

	var opts []service.Option
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.RabbitMQURL)))
		go queue.StartEntryConsumer(cfg.RabbitMQURL, cfg.EntryLogDir)
	}
	svc := service.New(users, stadiums, tickets, opts...)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Printf("redis unavailable at %s; cache and rate limit disabled", cfg.Redis.Addr)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	router.RegisterRoutes(e, handler.New(svc), router.Deps{
		Redis:     rdb,
		Cache:     cfg.Cache,
		RateLimit: cfg.RateLimit,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s, events=%t)", addr, cfg.Env, cfg.DBDriver, cfg.EventsEnabled)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func openStores(cfg config.Config) (service.UserStore, service.StadiumStore, service.TicketStore) {
	if cfg.DBDriver == config.DriverMemory {
		m := repository.NewMemory()
		return m.Users(), m.Stadiums(), m.Tickets()
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}
	return repository.NewUserRepo(db), repository.NewStadiumRepo(db), repository.NewTicketRepo(db)
}
