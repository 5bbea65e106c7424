// Package events публикует биллинговые события портала в RabbitMQ.
// События потребляет внешний сервис рассылки квитанций; портал только публикует.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Ключи маршрутизации биллинговых событий.
const (
	RoutingSubscriptionActivated = "subscription.activated"
	RoutingSubscriptionCancelled = "subscription.cancelled"
)

// QueueConfig описывает очередь и ключ маршрутизации для нее.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BillingQueues возвращает очереди биллинговых событий.
func BillingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "billing.receipts", RoutingKey: RoutingSubscriptionActivated},
		{QueueName: "billing.cancellations", RoutingKey: RoutingSubscriptionCancelled},
	}
}

// SubscriptionEvent — полезная нагрузка события о смене состояния подписки.
type SubscriptionEvent struct {
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	Plan       string    `json:"plan"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Connect подключается к RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// Publisher публикует биллинговые события в обменник.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher открывает канал, объявляет обменник и очереди биллинга.
func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	const op = "events.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range BillingQueues() {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return &Publisher{ch: ch, exchange: exchange}, nil
}

// Publish сериализует событие в JSON и публикует его с указанным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, event SubscriptionEvent) error {
	const op = "events.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		routingKey,
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

// Close закрывает канал публикации.
func (p *Publisher) Close() error {
	return p.ch.Close()
}
