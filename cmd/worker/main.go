package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hashlife_backend/internal/email"
	"hashlife_backend/internal/scheduler"
	"hashlife_backend/platform/config"
	"hashlife_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting follow-up worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender email.Sender
	if smtpSender := email.NewSMTPSender(cfg); smtpSender != nil {
		sender = smtpSender
	} else {
		log.Warn("SMTP not configured; follow-up tasks will be acknowledged without sending")
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
