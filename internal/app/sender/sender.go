// Package sender запускает воркер, который читает уведомления из очередей и отправляет письма.
package sender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/streamflix/internal/config"
	"github.com/magabrotheeeer/streamflix/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/streamflix/internal/services/sender"
)

// App — воркер рассылки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди уведомлений и ждёт отмены ctx.
// Перед закрытием канала дожидается обработки уже полученных сообщений.
func (a *App) Run(ctx context.Context) error {
	var groups []*sync.WaitGroup
	for routingKey, handler := range a.senderService.Handlers() {
		queue := rabbitmq.QueueFor(routingKey)
		wg, err := rabbitmq.ConsumerMessage(ctx, a.ch, queue, handler, a.logger)
		if err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", queue), sl.Err(err))
			a.close()
			return err
		}
		groups = append(groups, wg)
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	for _, wg := range groups {
		wg.Wait()
	}
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
