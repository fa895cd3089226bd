package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// ExchangeEvents — обменник событий жизненного цикла запусков.
const ExchangeEvents Exchange = "cascade.events"

// QueueRunEvents — очередь для внешних потребителей событий.
const QueueRunEvents Queue = "cascade.run-events"

// Routing keys.
const (
	RoutingKeyStarted  RoutingKey = "run.started"
	RoutingKeyFinished RoutingKey = "run.finished"
)

// SetupTopology объявляет обменник и очередь событий.
// Идемпотентна: повторный вызов на существующей топологии безопасен.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			"topic",                // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueRunEvents), // name
			true,                   // durable
			false,                  // delete when unused
			false,                  // exclusive
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueRunEvents, err)
		}

		// Очередь получает оба типа событий
		err = ch.QueueBind(
			string(QueueRunEvents), // queue name
			"run.*",                // routing key
			string(ExchangeEvents), // exchange
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", QueueRunEvents, err)
		}

		return nil
	})
}
