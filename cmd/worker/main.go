package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student_intervention_service/internal/app"
	"student_intervention_service/internal/domain/notify"
	ibroadcast "student_intervention_service/internal/infra/broadcast"
	"student_intervention_service/internal/infra/config"
	idb "student_intervention_service/internal/infra/database"
	"student_intervention_service/internal/infra/logger"
	"student_intervention_service/internal/infra/notifier"
	"student_intervention_service/internal/infra/scheduler"
	"student_intervention_service/pkg/clock"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithField("environment", cfg.Environment).Info("student intervention service starting")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("database connection established")

	// Repositories
	studentRepo := idb.NewPostgresStudentRepository(db)
	logRepo := idb.NewPostgresDailyLogRepository(db)
	interventionRepo := idb.NewPostgresInterventionRepository(db)
	actionRepo := idb.NewPostgresMentorActionRepository(db)

	// Mentor alert channel: webhook when configured, then Telegram, then log.
	var mentorNotifier notify.Notifier
	switch {
	case cfg.MentorWebhookURL != "":
		mentorNotifier = notifier.NewWebhookNotifier(cfg.MentorWebhookURL)
		log.Info("mentor alerts will be delivered via webhook")
	case cfg.TelegramToken != "" && cfg.MentorChatID != 0:
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			log.Fatalf("could not create Telegram bot: %v", err)
		}
		mentorNotifier = notifier.NewTelegramNotifier(bot, cfg.MentorChatID)
		log.Info("mentor alerts will be delivered via telegram")
	default:
		mentorNotifier = notifier.NewLogNotifier(log)
		log.Warn("no mentor alert channel configured, alerts go to the log")
	}

	broadcaster := ibroadcast.NewLogBroadcaster(log)
	clk := clock.System()

	evaluator := app.Evaluator{
		PassScore:       cfg.QuizPassScore,
		MinFocusMinutes: cfg.FocusMinMinutes,
	}

	interventionService := app.NewInterventionServiceImpl(
		studentRepo,
		logRepo,
		interventionRepo,
		mentorNotifier,
		broadcaster,
		evaluator,
		clk,
		cfg.MentorResponseDeadline,
		log,
	)

	escalationService := app.NewEscalationServiceImpl(
		interventionRepo,
		actionRepo,
		interventionService,
		clk,
		cfg.AutoUnlockWindow,
		log,
	)

	escalationScheduler := scheduler.NewEscalationScheduler(escalationService, log, cfg.SweepInterval)
	escalationScheduler.Start()

	log.Info("application setup complete, escalation scheduler is running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	escalationScheduler.Stop()
	log.Info("shut down gracefully")
}
