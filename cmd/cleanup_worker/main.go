package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/holocard-api/config"
	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

// cleanup_worker deletes replaced card images queued by the API when
// ASSET_CLEANUP_MODE=queue.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-cleanup", cfg.Env)
	if cfg.RabbitMQURL == "" || cfg.RabbitMQCleanupQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET not configured")
	}

	ctx := context.Background()
	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("failed to init GCS client: %v", err)
	}
	defer func() { _ = gcsClient.Close() }()
	store := helpers.NewGCSStore(gcsClient, cfg.GCSBucket)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQCleanupQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQCleanupQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 30*time.Second)
			// failures are counted and logged; a redelivered job would
			// only hit the same failure again
			application.ProcessCleanupJob(c, store, msg.Body, logger)
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("cleanup worker listening on queue=%s", cfg.RabbitMQCleanupQueue)
	<-stop
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
