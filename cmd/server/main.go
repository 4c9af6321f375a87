package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/alex8098/opentable-clone/internal/booking"
	"github.com/alex8098/opentable-clone/internal/config"
	"github.com/alex8098/opentable-clone/internal/database"
	"github.com/alex8098/opentable-clone/internal/handler"
	"github.com/alex8098/opentable-clone/internal/middleware"
	"github.com/alex8098/opentable-clone/internal/queue"
	"github.com/alex8098/opentable-clone/internal/repository"
	"github.com/alex8098/opentable-clone/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	tables := repository.NewTableRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Handlers
	policy := booking.ConflictPolicy{ServiceDuration: cfg.ServiceDuration()}
	authH := handler.NewAuthHandler(cfg, users, tokens)
	restH := handler.NewRestaurantHandler(restaurants)
	availH := handler.NewAvailabilityHandler(restaurants, bookings, policy)
	tableH := handler.NewTableHandler(tables, restaurants)
	bookingH := handler.NewBookingHandler(bookings, restaurants, booking.NewSlotLock(), policy)
	reviewH := handler.NewReviewHandler(reviews, restaurants)

	e := echo.New()

	// Redis-backed rate limiting and response caching.  A nil client
	// disables both and the API keeps serving.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, restH, availH, reviewH)
	router.RegisterOwner(e, restH, tableH, bookingH, cfg.JWTSecret)
	router.RegisterCustomer(e, bookingH, reviewH, cfg.JWTSecret)

	// Background consumer logs booking events; it reconnects on its own
	// and never takes the API down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
