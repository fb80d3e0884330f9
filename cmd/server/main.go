package main // Entry point package

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"

    "github.com/larsholm/event-ticketing/internal/booking"
    "github.com/larsholm/event-ticketing/internal/config"
    "github.com/larsholm/event-ticketing/internal/database"
    "github.com/larsholm/event-ticketing/internal/handler"
    "github.com/larsholm/event-ticketing/internal/logger"
    "github.com/larsholm/event-ticketing/internal/metrics"
    "github.com/larsholm/event-ticketing/internal/middleware"
    "github.com/larsholm/event-ticketing/internal/queue"
    "github.com/larsholm/event-ticketing/internal/repository"
    "github.com/larsholm/event-ticketing/internal/router"
    queue_publisher "github.com/larsholm/event-ticketing/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    log := logger.New(cfg.Env)
    defer func() { _ = log.Sync() }()

    db, err := database.Open(cfg)
    if err != nil {
        log.Fatal("database open failed", zap.Error(err))
    }
    defer func() { _ = db.Close() }()

    if err := database.Migrate(db); err != nil {
        log.Fatal("database migration failed", zap.Error(err))
    }

    rdb := config.NewRedisClient() // nil when Redis is not configured
    m := metrics.New()

    // Repositories share the one pooled connection.
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    eventRepo := repository.NewEventRepo(db)
    ticketRepo := repository.NewTicketTypeRepo(db)
    seatRepo := repository.NewSeatRepo(db)
    orderRepo := repository.NewOrderRepo(db)

    store := repository.NewBookingStore(db)
    notifier := queue_publisher.NewQueueNotifier(log)
    engine := booking.NewEngine(store, notifier,
        time.Duration(cfg.CancelWindowHours)*time.Hour, log)

    authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    eventHandler := handler.NewEventHandler(eventRepo, ticketRepo)
    availHandler := handler.NewAvailabilityHandler(eventRepo, ticketRepo, seatRepo)
    bookingHandler := handler.NewBookingHandler(engine, m)
    orderHandler := handler.NewOrderHandler(orderRepo)

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewValidator()
    e.Use(echomw.Recover())
    e.Use(echomw.RequestID())
    e.Use(middleware.Prometheus(m))

    var cache echo.MiddlewareFunc
    if rdb != nil {
        cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    }
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authHandler, cfg.JWTSecret)
    router.RegisterPublic(e, eventHandler, availHandler, cache)
    router.RegisterAttendee(e, bookingHandler, orderHandler, cfg.JWTSecret, limiter)
    router.RegisterOrganizer(e, eventHandler, cfg.JWTSecret)

    // Consumer appends confirmation/cancellation lines to logs/orders.log;
    // it reconnects on broker failures and never takes the server down.
    go func() {
        if err := queue.StartOrderConsumer(); err != nil {
            log.Warn("order consumer stopped", zap.Error(err))
        }
    }()

    addr := ":" + cfg.Port
    log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

    go func() {
        if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
            log.Fatal("server start failed", zap.Error(err))
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    log.Info("shutting down")
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        log.Fatal("shutdown failed", zap.Error(err))
    }
}
