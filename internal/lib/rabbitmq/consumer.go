package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// maxInFlight — сколько сообщений одной очереди обрабатывается одновременно.
const maxInFlight = 10

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage подписывается на очередь и обрабатывает сообщения в фоне,
// пока не отменён ctx. Возвращённая WaitGroup дожидается обработчиков.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler Handler, log *slog.Logger) (*sync.WaitGroup, error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		consume(ctx, delivery, handler, log.With(slog.String("queue", queueName)), wg)
	}()
	return wg, nil
}

// Acknowledger — подтверждение доставки.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func consume(ctx context.Context, delivery <-chan amqp.Delivery, handler Handler, log *slog.Logger, wg *sync.WaitGroup) {
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(ctx, d, d.Body, handler, log)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func handle(ctx context.Context, ack Acknowledger, body []byte, handler Handler, log *slog.Logger) {
	if err := handler(ctx, body); err != nil {
		log.Error("failed to handle message", sl.Err(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
