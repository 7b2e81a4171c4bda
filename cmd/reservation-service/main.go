package main // reservation-service serves users and reservations

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

	"github.com/iliyamo/restaurant-booking/internal/client"
	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/queue"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/router"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

func main() {
	cfg := config.Load()
	avail := config.LoadAvailabilityConfig()
	qcfg := config.LoadQueueConfig()
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
	if err := database.EnsureSchema(ctx, db, database.SchemaReservations); err != nil {
		log.Fatal(err)
	}
	rdb := config.NewRedisClient()

	directory := client.NewRestaurantClient(config.LoadClientConfig())
	opts := service.AvailabilityOptions{
		Location:           cfg.TimeZone,
		ClosingHour:        avail.ClosingHour,
		WeekendProbability: avail.WeekendProbability,
		CheckOpeningHours:  avail.CheckOpeningHours,
	}
	if avail.Seed != 0 {
		opts.Rand = service.SeededRand(avail.Seed)
	}
	checker := service.NewAvailabilityChecker(directory, opts)

	var events service.EventPublisher
	if qcfg.Enabled {
		events = queue.NewPublisher(qcfg.URL, qcfg.Queue)
		consumer := &queue.Consumer{URL: qcfg.URL, Queue: qcfg.Queue, LogDir: qcfg.LogDir}
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				glog.Errorf("event consumer stopped: %v", err)
			}
		}()
	}

	userRepo := repository.NewUserRepo(db)
	users := service.NewUserService(userRepo)
	reservations := service.NewReservationService(repository.NewReservationRepo(db), userRepo, directory, checker, events, nil)

	e := router.New(cfg.CORSOrigin, cfg.Env == "dev")
	router.RegisterOps(e, "reservation-service", db)
	router.RegisterReservations(e, handler.NewUserHandler(users), handler.NewReservationHandler(reservations, checker),
		cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("reservation-service listening on %s (env=%s)", addr, cfg.Env)
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
