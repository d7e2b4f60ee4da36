package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/cinema-ticket-booking/internal/account"      // registration and login
	"github.com/iliyamo/cinema-ticket-booking/internal/availability" // free seat computation
	"github.com/iliyamo/cinema-ticket-booking/internal/booking"      // selection workflow
	"github.com/iliyamo/cinema-ticket-booking/internal/config"       // environment configuration
	"github.com/iliyamo/cinema-ticket-booking/internal/database"     // MySQL connection
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"      // HTTP handlers
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"   // rate limiting
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"        // purchase event consumer
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"   // data access
	"github.com/iliyamo/cinema-ticket-booking/internal/router"       // route registration
	queue_publisher "github.com/iliyamo/cinema-ticket-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg := config.Load()

	db, err := database.OpenFromConfig(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the booking drafts and the rate limiter.  When it is
	// unreachable the service still runs: drafts fall back to process
	// memory and the limiter passes everything through.
	rdb := config.NewRedisClient()
	var drafts booking.DraftStore
	if rdb != nil {
		drafts = booking.NewRedisDraftStore(rdb, booking.DefaultDraftTTL)
	} else {
		log.Println("redis unavailable, keeping booking drafts in memory")
		drafts = booking.NewMemoryDraftStore()
	}

	users := repository.NewUserRepo(db)
	shows := repository.NewShowRepo(db)
	tickets := repository.NewTicketRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := availability.NewEngine(tickets, cfg.Grid())
	flow := booking.NewWorkflow(shows, tickets, engine, drafts, queue_publisher.Rabbit{})
	accounts := account.NewService(users, cfg.BcryptCost)

	// Consume purchase events in the background.  The consumer keeps
	// reconnecting on broker failures and never takes the API down.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	showH := handler.NewShowHandler(shows)
	authH := handler.NewAuthHandler(cfg, accounts, tokens)
	bookingH := handler.NewBookingHandler(flow)
	ticketH := handler.NewTicketHandler(tickets)

	router.RegisterRoutes(e, showH)
	auth := router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBooking(auth, bookingH, ticketH)
	router.RegisterShowAdmin(auth, showH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, grid=%dx%d)", addr, cfg.Env, cfg.ShowRows, cfg.ShowCells)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
