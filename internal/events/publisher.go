package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Cascade/internal/domain"
)

// EventType — тип события жизненного цикла запуска.
type EventType string

// Типы событий.
const (
	EventTypeRunStarted  EventType = "run.started"
	EventTypeRunFinished EventType = "run.finished"
)

// Publisher публикует события жизненного цикла в RabbitMQ.
//
// Publisher опционален: без брокера движок работает так же,
// просто без внешних уведомлений.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Event — событие для публикации.
type Event struct {
	// ID — уникальный идентификатор события.
	ID string `json:"id"`

	// Type — тип события.
	Type EventType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// RunStartedPayload — payload события о начале запуска.
type RunStartedPayload struct {
	RunID    uuid.UUID      `json:"run_id"`
	Pipeline string         `json:"pipeline"`
	Inputs   map[string]any `json:"inputs,omitempty"`
}

// RunFinishedPayload — payload события о завершении запуска.
type RunFinishedPayload struct {
	RunID      uuid.UUID           `json:"run_id"`
	Pipeline   string              `json:"pipeline"`
	Status     domain.RunStatus    `json:"status"`
	StepErrors map[string][]string `json:"step_errors,omitempty"`
	Error      string              `json:"error,omitempty"`
	DurationMs int64               `json:"duration_ms"`
}

// publish публикует событие в exchange событий.
func (p *Publisher) publish(ctx context.Context, routingKey RoutingKey, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeEvents),
			string(routingKey),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // событие переживёт рестарт RabbitMQ
				MessageId:    event.ID,
				Timestamp:    event.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeEvents, routingKey, err)
		}

		p.logger.Debug("published event",
			"routing_key", routingKey,
			"event_id", event.ID,
			"type", event.Type,
		)

		return nil
	})
}

// PublishRunStarted публикует событие о начале выполнения конвейера.
func (p *Publisher) PublishRunStarted(ctx context.Context, run *domain.Run) error {
	event := &Event{
		ID:   uuid.New().String(),
		Type: EventTypeRunStarted,
		Payload: RunStartedPayload{
			RunID:    run.ID,
			Pipeline: run.Pipeline,
			Inputs:   run.Inputs,
		},
		Timestamp: time.Now(),
	}
	return p.publish(ctx, RoutingKeyStarted, event)
}

// PublishRunFinished публикует событие о завершении выполнения конвейера.
func (p *Publisher) PublishRunFinished(ctx context.Context, run *domain.Run) error {
	event := &Event{
		ID:   uuid.New().String(),
		Type: EventTypeRunFinished,
		Payload: RunFinishedPayload{
			RunID:      run.ID,
			Pipeline:   run.Pipeline,
			Status:     run.Status,
			StepErrors: run.StepErrors,
			Error:      run.Error,
			DurationMs: run.Duration().Milliseconds(),
		},
		Timestamp: time.Now(),
	}
	return p.publish(ctx, RoutingKeyFinished, event)
}
