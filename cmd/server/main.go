package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/calendar"
	"github.com/hanbit/makerspace-reservation/internal/config"
	"github.com/hanbit/makerspace-reservation/internal/database"
	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/handler"
	"github.com/hanbit/makerspace-reservation/internal/queue"
	"github.com/hanbit/makerspace-reservation/internal/repository"
	"github.com/hanbit/makerspace-reservation/internal/router"
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

	users := repository.NewUserRepo(db)
	machines := repository.NewMachineRepo(db)
	reservations := repository.NewReservationRepo(db)
	warnings := repository.NewWarningRepo(db)
	tokens := repository.NewTokenRepo(db)
	notices := repository.NewNoticeRepo(db)
	inquiries := repository.NewInquiryRepo(db)
	feedback := repository.NewFeedbackRepo(db)
	comments := repository.NewCommentRepo(db)

	core := engine.New(db, users, machines, reservations, warnings, tokens,
		notices, inquiries, feedback, comments, calendar.New(nil))

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}

	go func() {
		if err := queue.StartNotificationConsumer(cfg.AMQPURL); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(users, tokens, cfg),
		Users:        handler.NewUserHandler(users, core),
		Reservations: handler.NewReservationHandler(core),
		Warnings:     handler.NewWarningHandler(core),
		Machines:     handler.NewMachineHandler(machines),
		Notices:      handler.NewNoticeHandler(notices, core),
		Inquiries:    handler.NewInquiryHandler(inquiries, core),
		Feedback:     handler.NewFeedbackHandler(feedback, core),
		Comments:     handler.NewCommentHandler(comments, core),
	}, cfg, rdb)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
