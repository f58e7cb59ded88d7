package cmd

import (
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"songvault/internal/models"
	"songvault/pkg/rabbitmq"

	"github.com/spf13/cobra"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail resource events from RabbitMQ",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.Rabbit.URL == "" {
			return errors.New("RABBITMQ_URL is not set")
		}

		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.Rabbit.URL, Queue: cfg.Rabbit.Queue}, log)
		if err != nil {
			return err
		}
		defer mq.Close()

		done, err := mq.ConsumeResourceEvents(func(msg amqp.Delivery) error {
			var event models.ResourceEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				return err
			}
			log.Info("Resource event",
				zap.String("type", event.Type),
				zap.String("song_id", event.SongID),
				zap.String("user_id", event.UserID),
				zap.String("filename", event.Filename),
				zap.Time("occurred_at", event.OccurredAt),
			)
			return nil
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info("Waiting for resource events. To exit press CTRL+C", zap.String("queue", cfg.Rabbit.Queue))
		select {
		case <-ctx.Done():
		case <-done:
			log.Warn("Event stream closed by broker")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
