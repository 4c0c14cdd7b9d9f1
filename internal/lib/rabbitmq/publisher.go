package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage сериализует message в JSON и публикует его.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует уведомления в обменник Exchange.
// Канал amqp не рассчитан на конкурентную публикацию, поэтому вызовы сериализуются.
type Publisher struct {
	mu sync.Mutex
	ch Channel
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish отправляет сообщение с ключом маршрутизации routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rabbitmq.Publish: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return PublishMessage(p.ch, Exchange, routingKey, message)
}
