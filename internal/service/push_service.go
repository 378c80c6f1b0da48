package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"legalis-admin/internal/domain"
	"legalis-admin/internal/observability"
	"legalis-admin/internal/provider"
	"legalis-admin/internal/queue"
	"legalis-admin/internal/ratelimit"
	"legalis-admin/internal/repository"
)

const (
	minPushConcurrency     = 1
	defaultPushMaxAttempts = 5
	basePushBackoff        = 500 * time.Millisecond
	maxPushBackoff         = 10 * time.Second

	pushRateLimitKey = "push"
)

// PushService consumes appeal decision events and delivers the matching
// notification rows to the push gateway.
type PushService struct {
	notifications repository.NotificationRepository
	consumer      queue.Consumer
	provider      provider.Provider
	rateLimiter   ratelimit.RateLimiter
	logger        *zap.Logger
	metrics       *observability.Metrics
	concurrency   int
	maxAttempts   int
	now           func() time.Time
	sleep         func(ctx context.Context, d time.Duration) error
}

func NewPushService(
	notifications repository.NotificationRepository,
	consumer queue.Consumer,
	pushProvider provider.Provider,
	rateLimiter ratelimit.RateLimiter,
	concurrency int,
	maxAttempts int,
	logger *zap.Logger,
) (*PushService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if consumer == nil {
		return nil, fmt.Errorf("consumer is required")
	}
	if pushProvider == nil {
		return nil, fmt.Errorf("push provider is required")
	}
	if concurrency < minPushConcurrency {
		concurrency = minPushConcurrency
	}
	if maxAttempts < 1 {
		maxAttempts = defaultPushMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PushService{
		notifications: notifications,
		consumer:      consumer,
		provider:      pushProvider,
		rateLimiter:   rateLimiter,
		logger:        logger,
		concurrency:   concurrency,
		maxAttempts:   maxAttempts,
		now:           time.Now,
		sleep:         sleepWithContext,
	}, nil
}

func (s *PushService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Start consumes the appeal events queue until context cancellation.
func (s *PushService) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			s.logger.Info("push worker started", zap.Int("workerId", workerID))

			err := s.consumer.Consume(groupCtx, queue.AppealEventsQueue, s.processEvent)
			if err != nil {
				s.logger.Error("push worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			s.logger.Info("push worker stopped", zap.Int("workerId", workerID))
			return nil
		})
	}

	return g.Wait()
}

// processEvent delivers one decision notification. A returned error nacks
// the message back onto the queue for another attempt.
func (s *PushService) processEvent(ctx context.Context, msg queue.AppealEventMessage) error {
	notification, err := s.notifications.GetByID(ctx, msg.NotificationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("notification not found for event, skipping",
				zap.String("eventId", msg.EventID),
				zap.String("notificationId", msg.NotificationID),
			)
			return nil
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}

	// Delivered or failed rows are terminal; ack and skip.
	if notification.DeliveryStatus != domain.DeliveryStatusPending {
		return nil
	}

	if s.metrics != nil {
		s.metrics.IncWorkerInFlight()
		defer s.metrics.DecWorkerInFlight()
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx, pushRateLimitKey); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	attempt := notification.DeliveryAttempts + 1
	sendStart := s.now()
	_, sendErr := s.provider.Send(ctx, *notification)
	if s.metrics != nil {
		s.metrics.ObservePushDuration(s.now().Sub(sendStart))
	}

	if sendErr == nil {
		if err := s.notifications.MarkDelivered(ctx, notification.ID, s.now().UTC()); err != nil {
			return fmt.Errorf("failed to mark notification delivered: %w", err)
		}
		s.metrics.IncPushDelivered()
		return nil
	}

	isTransient := provider.IsTransient(sendErr)
	if isTransient && attempt < s.maxAttempts {
		if err := s.notifications.IncrementDeliveryAttempts(ctx, notification.ID); err != nil {
			return fmt.Errorf("failed to record delivery attempt: %w", err)
		}
		s.logger.Warn("push delivery failed, requeueing",
			zap.String("notificationId", notification.ID),
			zap.Int("attempt", attempt),
			zap.Error(sendErr),
		)

		if err := s.sleep(ctx, pushBackoff(attempt)); err != nil {
			return err
		}
		return sendErr
	}

	if err := s.notifications.MarkFailed(ctx, notification.ID); err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	reason := "permanent_error"
	if isTransient {
		reason = "retry_exhausted"
	}
	s.metrics.IncPushFailed(reason)
	s.logger.Error("push delivery failed permanently",
		zap.String("notificationId", notification.ID),
		zap.Int("attempt", attempt),
		zap.String("reason", reason),
		zap.Error(sendErr),
	)

	return nil
}

func pushBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := basePushBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxPushBackoff {
			return maxPushBackoff
		}
	}
	return delay
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
