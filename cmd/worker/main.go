package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"patungan/internal/adapter/repo"
	"patungan/internal/events"
	"patungan/internal/infra"
	"patungan/internal/quota"
)

// The worker consumes donation-recorded events and maintains the daily
// analytics counters off the payment hot path. Malformed messages are
// dropped; storage failures requeue, since the counters must eventually
// converge with the durable donation records.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	if cfg.AMQPURL == "" {
		logger.Fatal().Msg("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()
	analytics := repo.NewAnalyticsRepository(pool)

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: amqp connection failed")
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: open channel failed")
	}
	defer channel.Close()

	if err := channel.ExchangeDeclare(cfg.AMQPExchange, "fanout", true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("worker: declare exchange failed")
	}
	queue, err := channel.QueueDeclare("donation-analytics", true, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: declare queue failed")
	}
	if err := channel.QueueBind(queue.Name, "", cfg.AMQPExchange, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("worker: bind queue failed")
	}

	deliveries, err := channel.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: consume failed")
	}

	logger.Info().Str("queue", queue.Name).Msg("worker consuming donation events")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopped")
			return
		case delivery, ok := <-deliveries:
			if !ok {
				logger.Error().Msg("worker: delivery channel closed")
				return
			}

			var event events.DonationRecordedEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				logger.Warn().Err(err).Msg("worker: malformed event dropped")
				_ = delivery.Nack(false, false)
				continue
			}

			day := quota.DayKey(event.RecordedAt)
			if err := analytics.IncrementDonation(ctx, day, event.Provider, event.Amount); err != nil {
				logger.Error().Err(err).Str("donation_id", event.DonationID).Msg("worker: analytics update failed")
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}
