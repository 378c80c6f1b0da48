package queue

import "context"

const (
	// AppealEventsQueue carries decision events from the API to the push worker.
	AppealEventsQueue = "appeal.events"
	// AppealEventsDLQ receives events rejected as unprocessable.
	AppealEventsDLQ = "dlq.appeal.events"

	dlxExchangeName = "legalis.dlx"
)

// Publisher publishes appeal decision events to the broker.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg AppealEventMessage) error
	Close() error
}

// MessageHandler handles a consumed appeal event.
type MessageHandler func(ctx context.Context, msg AppealEventMessage) error

// Consumer consumes appeal decision events from the broker.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}
