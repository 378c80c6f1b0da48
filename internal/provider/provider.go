package provider

import (
	"context"

	"legalis-admin/internal/domain"
)

// Response captures the push gateway's answer for a delivered notification.
type Response struct {
	StatusCode int
	Body       string
	MessageID  string
}

// Provider delivers a decision notification to the client-facing push feed.
type Provider interface {
	Send(ctx context.Context, notification domain.Notification) (*Response, error)
}
