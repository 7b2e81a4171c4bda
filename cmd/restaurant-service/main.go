package main // restaurant-service serves the restaurant directory, reviews and availability

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/router"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

func main() {
	cfg := config.Load()
	avail := config.LoadAvailabilityConfig()
	if cfg.Env == "dev" {
		glog.SetLevel(glog.DEBUG)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db, database.SchemaRestaurants); err != nil {
		log.Fatal(err)
	}
	rdb := config.NewRedisClient()

	restaurantRepo := repository.NewRestaurantRepo(db)
	restaurants := service.NewRestaurantService(restaurantRepo, nil)
	reviews := service.NewReviewService(repository.NewReviewRepo(db), restaurantRepo)
	opts := service.AvailabilityOptions{
		Location:           cfg.TimeZone,
		ClosingHour:        avail.ClosingHour,
		WeekendProbability: avail.WeekendProbability,
		CheckOpeningHours:  avail.CheckOpeningHours,
	}
	if avail.Seed != 0 {
		opts.Rand = service.SeededRand(avail.Seed)
	}
	checker := service.NewAvailabilityChecker(restaurants, opts)

	e := router.New(cfg.CORSOrigin, cfg.Env == "dev")
	router.RegisterOps(e, "restaurant-service", db)
	router.RegisterRestaurants(e, handler.NewRestaurantHandler(restaurants, reviews, checker),
		cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("restaurant-service listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
