package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/config"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/database"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/handler"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/lock"
	appmw "github.com/IngAlexfit/caribeVibes-system-sub000/internal/middleware"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/queue"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/repository"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/router"
	queuepub "github.com/IngAlexfit/caribeVibes-system-sub000/internal/service"
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

	// Redis backs the response cache, the rate limiter and the booking
	// lease.  nil means all three degrade gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache, rate limiting and booking lease disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	hotels := repository.NewHotelRepo(db)
	roomTypes := repository.NewRoomTypeRepo(db)
	destinations := repository.NewDestinationRepo(db)
	activities := repository.NewActivityRepo(db)

	ref := repository.NewReferenceData(users, hotels, roomTypes, activities)

	var locker booking.Locker
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb)
	}
	svc := booking.NewService(bookings, ref, locker, queuepub.NewNotifier())

	e := echo.New()

	// The limiter mounts per group rather than globally so it runs
	// after the JWT middleware and can key authenticated callers by
	// user ID instead of IP.
	limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, limiter)
	router.RegisterCatalogue(e,
		handler.NewCatalogueHandler(destinations, hotels, roomTypes, activities),
		appmw.NewRedisCache(config.LoadCacheConfig(), rdb),
		limiter)
	router.RegisterBooking(e,
		handler.NewBookingHandler(svc, bookings, users, hotels, roomTypes, destinations, activities),
		handler.NewAdminBookingHandler(svc, bookings),
		cfg.JWTSecret,
		limiter)

	// Background consumer appending booking events to logs/booking.log.
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
