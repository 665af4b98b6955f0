package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/config"
	"github.com/morekat/boat-charter/internal/database"
	"github.com/morekat/boat-charter/internal/handler"
	"github.com/morekat/boat-charter/internal/middleware"
	"github.com/morekat/boat-charter/internal/queue"
	"github.com/morekat/boat-charter/internal/repository"
	"github.com/morekat/boat-charter/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache and
	// rate limiter instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	// Repositories
	boats := repository.NewBoatRepo(db)
	bookings := repository.NewBookingRepo(db)
	trips := repository.NewTripRepo(db)
	services := repository.NewServiceRepo(db)
	tickets := repository.NewTicketRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	contacts := repository.NewContactRepo(db)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	telegramH := handler.NewTelegramHandler(cfg, users, tokens)
	publicH := &handler.PublicHandler{BoatRepo: boats, TripRepo: trips, ServiceRepo: services}
	bookingH := handler.NewBookingHandler(boats, bookings, users)
	ticketH := handler.NewTicketHandler(trips, services, tickets, users)
	contactH := handler.NewContactHandler(contacts)
	adminH := handler.NewAdminHandler(boats, bookings, trips, services, tickets, users)

	e := echo.New()

	// Global middleware: token-bucket rate limiting first, then the
	// response cache for public GETs.  Both are no-ops without Redis.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Routes
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, telegramH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterCustomer(e, bookingH, ticketH, contactH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, contactH, cfg.JWTSecret)

	// Background consumer that turns published events into notify.log
	// lines; it reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
