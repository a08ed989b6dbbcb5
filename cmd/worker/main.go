package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meezumi/content-review-platform/internal/config"
	"github.com/meezumi/content-review-platform/internal/modules/notification"
)

const dequeueTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dispatcher, err := notification.NewDispatcherFromURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	mailer := notification.NewMailer(notification.MailerConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SenderEmail,
		FromName: cfg.SenderName,
	})
	if !mailer.IsConfigured() {
		log.Println("SMTP is not configured; jobs will be consumed and logged only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("email worker started")
	run(ctx, dispatcher, mailer, cfg.QueueMaxRetries)
	log.Println("email worker stopped")
}

func run(ctx context.Context, dispatcher *notification.Dispatcher, mailer *notification.Mailer, maxRetries int) {
	for {
		job, err := dispatcher.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			log.Printf("dequeue: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := deliver(mailer, job); err != nil {
			job.Attempts++
			if job.Attempts >= maxRetries {
				log.Printf("dropping %s job to %s after %d attempts: %v", job.Type, job.To, job.Attempts, err)
				continue
			}
			log.Printf("requeueing %s job to %s (attempt %d): %v", job.Type, job.To, job.Attempts, err)
			if err := dispatcher.Enqueue(ctx, *job); err != nil {
				log.Printf("requeue failed, job lost: %v", err)
			}
			continue
		}

		log.Printf("sent %s email to %s", job.Type, job.To)
	}
}

func deliver(mailer *notification.Mailer, job *notification.EmailJob) error {
	if !mailer.IsConfigured() {
		log.Printf("would send %s email to %s: %s", job.Type, job.To, job.Subject)
		return nil
	}
	return mailer.SendHTML(job.To, job.Subject, job.HTML)
}
