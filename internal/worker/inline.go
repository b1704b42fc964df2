package worker

import (
	"context"
	"errors"

	"financas/internal/amqp"
)

// Chain runs handlers in order and joins their errors. Every handler sees
// the event even when an earlier one fails.
func Chain(handlers ...amqp.Handler) amqp.Handler {
	return func(ctx context.Context, ev *amqp.LedgerEvent) error {
		var errs []error
		for _, h := range handlers {
			if err := h(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

// InlinePublisher hands events straight to a handler in the caller's
// goroutine. The API uses it when no broker is configured.
type InlinePublisher struct {
	handler amqp.Handler
}

func NewInlinePublisher(handler amqp.Handler) *InlinePublisher {
	return &InlinePublisher{handler: handler}
}

func (p *InlinePublisher) PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.handler(ctx, ev)
}
