package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Conveyor/internal/domain"
)

// ExchangeRuns — обменник событий жизненного цикла run.
const ExchangeRuns = "conveyor.runs"

// Routing keys событий.
const (
	RoutingKeyStarted   = "started"
	RoutingKeyCompleted = "completed"
	RoutingKeyFailed    = "failed"
)

// RunEvent — событие жизненного цикла run.
type RunEvent struct {
	RunID      string    `json:"run_id"`
	FlowName   string    `json:"flow_name"`
	Status     string    `json:"status"`
	FailedTask string    `json:"failed_task,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher публикует события run в RabbitMQ.
//
// Публикация best-effort: движок логирует отказ и продолжает работу,
// событийная шина не стоит на критическом пути выполнения.
type Publisher struct {
	conn *Connection
}

// NewPublisher создаёт Publisher и объявляет обменник.
func NewPublisher(conn *Connection) (*Publisher, error) {
	ch := conn.Channel()
	if ch == nil {
		return nil, fmt.Errorf("no channel available")
	}

	err := ch.ExchangeDeclare(
		ExchangeRuns,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeRuns, err)
	}

	return &Publisher{conn: conn}, nil
}

// PublishRunStarted публикует событие о старте run.
func (p *Publisher) PublishRunStarted(ctx context.Context, run *domain.Run) error {
	return p.publish(ctx, RoutingKeyStarted, eventFromRun(run))
}

// PublishRunFinished публикует событие о завершении run:
// routing key выбирается по терминальному статусу.
func (p *Publisher) PublishRunFinished(ctx context.Context, run *domain.Run) error {
	key := RoutingKeyCompleted
	if run.Status == domain.RunStatusFailed {
		key = RoutingKeyFailed
	}
	return p.publish(ctx, key, eventFromRun(run))
}

// publish сериализует и отправляет событие.
func (p *Publisher) publish(ctx context.Context, routingKey string, event RunEvent) error {
	ch := p.conn.Channel()
	if ch == nil {
		return fmt.Errorf("no channel available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		ExchangeRuns,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	return nil
}

// eventFromRun собирает событие из run.
func eventFromRun(run *domain.Run) RunEvent {
	return RunEvent{
		RunID:      run.ID.String(),
		FlowName:   run.FlowName,
		Status:     string(run.Status),
		FailedTask: run.FailedTask,
		Error:      run.Error,
		At:         time.Now(),
	}
}
