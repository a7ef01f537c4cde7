package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainer-manager/internal/config"
	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/domain/booking"
	"trainer-manager/internal/domain/schedule"
	"trainer-manager/internal/domain/stats"
	"trainer-manager/internal/domain/trainee"
	"trainer-manager/internal/firebase"
	apihttp "trainer-manager/internal/http"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase app init failed: %v", err)
	}

	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatalf("firebase auth client init failed: %v", err)
	}

	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		log.Fatalf("firestore init failed: %v", err)
	}
	defer fs.Close()

	// Repositories
	availabilityRepo := availability.NewRepo(fs.Client)
	bookingRepo := booking.NewRepo(fs.Client)
	traineeRepo := trainee.NewRepo(fs.Client)

	// Services
	bookingSvc := booking.NewService(bookingRepo, cfg.HorizonWeeks)
	availabilitySvc := availability.NewService(availabilityRepo)
	availabilitySvc.SetSlotGenerator(bookingSvc)
	scheduleSvc := schedule.NewService(availabilityRepo, bookingRepo)
	statsSvc := stats.NewService(availabilityRepo, bookingRepo)
	traineeSvc := trainee.NewService(traineeRepo)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:             cfg,
		AuthClient:      authClient,
		AvailabilitySvc: availabilitySvc,
		BookingSvc:      bookingSvc,
		ScheduleSvc:     scheduleSvc,
		StatsSvc:        statsSvc,
		TraineeSvc:      traineeSvc,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("API listening on :%s (project=%s)", cfg.Port, cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("shutting down...")
	_ = srv.Shutdown(ctxShutdown)
}
