package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legalis-admin/internal/domain"
	"legalis-admin/internal/observability"
	"legalis-admin/internal/queue"
	"legalis-admin/internal/repository"
)

const liftedReasonAppealApproved = "Appeal approved"

const (
	approvalTitle    = "Suspension appeal approved"
	approvalMessage  = "Your suspension appeal has been approved. Your account has been reactivated."
	rejectionTitle   = "Suspension appeal rejected"
	rejectionMessage = "Your suspension appeal has been reviewed and rejected."
)

var (
	// ErrApprovalCascade marks a rolled-back suspension-lift/reactivation/notify sequence.
	ErrApprovalCascade = fmt.Errorf("%w: failed to process appeal approval", domain.ErrCascade)
	// ErrRejectionNotify marks a rolled-back rejection notification insert.
	ErrRejectionNotify = fmt.Errorf("%w: failed to send rejection notification", domain.ErrCascade)
)

// DecisionInput is the partial update carried by an admin PATCH. Nil fields
// were absent from the request and leave the column untouched.
type DecisionInput struct {
	Status          *string
	AdminNotes      *string
	RejectionReason *string
}

type AppealService struct {
	appeals   repository.AppealRepository
	txm       repository.TxManager
	publisher queue.Publisher
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewAppealService(
	appeals repository.AppealRepository,
	txm repository.TxManager,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*AppealService, error) {
	if appeals == nil {
		return nil, fmt.Errorf("appeal repository is required")
	}
	if txm == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AppealService{
		appeals:   appeals,
		txm:       txm,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *AppealService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

func (s *AppealService) GetByID(ctx context.Context, id string) (*domain.Appeal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: appeal id is required", domain.ErrValidation)
	}
	return s.appeals.GetByID(ctx, strings.TrimSpace(id))
}

func (s *AppealService) List(ctx context.Context, params repository.AppealListParams) ([]domain.Appeal, int64, error) {
	return s.appeals.List(ctx, params)
}

func (s *AppealService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: appeal id is required", domain.ErrValidation)
	}
	return s.appeals.Delete(ctx, strings.TrimSpace(id))
}

// Decide applies an admin decision to one appeal. The appeal update and,
// on approval, the suspension lift, user reactivation, and notification
// insert all commit in one transaction; any failure rolls the whole
// decision back. The decision event is published after commit and never
// fails the request.
func (s *AppealService) Decide(ctx context.Context, id string, adminID string, input DecisionInput) (*domain.Appeal, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	adminID = strings.TrimSpace(adminID)
	if id == "" {
		return nil, fmt.Errorf("%w: appeal id is required", domain.ErrValidation)
	}
	if adminID == "" {
		return nil, fmt.Errorf("%w: admin id is required", domain.ErrValidation)
	}

	var status *domain.AppealStatus
	if input.Status != nil {
		parsed, err := domain.ParseAppealStatusFromString(*input.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	appeal, err := s.appeals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only pending appeals may receive a status change; notes-only
	// updates remain allowed in any state.
	if status != nil && appeal.Status != domain.AppealStatusPending {
		return nil, fmt.Errorf("%w: appeal %s is already %s", domain.ErrConflict, id, appeal.Status)
	}

	now := s.now().UTC()
	update := repository.AppealUpdate{
		ReviewedBy:      adminID,
		ReviewedAt:      now,
		Status:          status,
		AdminNotes:      normalizeOptionalText(input.AdminNotes),
		RejectionReason: normalizeOptionalText(input.RejectionReason),
	}

	var (
		updated      *domain.Appeal
		notification *domain.Notification
	)
	err = s.txm.InTx(ctx, func(tx repository.RepoSet) error {
		if err := tx.Appeals.Update(ctx, id, update); err != nil {
			return err
		}

		fresh, err := tx.Appeals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = fresh

		if status == nil {
			return nil
		}

		switch *status {
		case domain.AppealStatusApproved:
			if err := tx.Suspensions.Lift(ctx, appeal.SuspensionID, adminID, liftedReasonAppealApproved, now); err != nil {
				return fmt.Errorf("%w: %v", ErrApprovalCascade, err)
			}
			if err := tx.Users.Reactivate(ctx, appeal.UserID, now); err != nil {
				return fmt.Errorf("%w: %v", ErrApprovalCascade, err)
			}

			n := s.buildNotification(appeal, *status, adminID, approvalTitle, approvalMessage, now)
			if err := tx.Notifications.Create(ctx, n); err != nil {
				return fmt.Errorf("%w: %v", ErrApprovalCascade, err)
			}
			notification = n
		case domain.AppealStatusRejected:
			n := s.buildNotification(appeal, *status, adminID, rejectionTitle, rejectionMessage, now)
			if err := tx.Notifications.Create(ctx, n); err != nil {
				return fmt.Errorf("%w: %v", ErrRejectionNotify, err)
			}
			notification = n
		}

		return nil
	})
	if err != nil {
		if status != nil {
			s.metrics.IncCascadeFailure()
		}
		return nil, err
	}

	if status != nil {
		s.metrics.IncAppealDecision(status.String())
		s.publishDecisionEvent(ctx, appeal, notification, *status, adminID, now)
	}

	return updated, nil
}

func (s *AppealService) buildNotification(
	appeal *domain.Appeal,
	decision domain.AppealStatus,
	adminID string,
	title string,
	message string,
	now time.Time,
) *domain.Notification {
	return &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  appeal.UserID,
		Type:    domain.NotificationTypeAppealDecision,
		Title:   title,
		Message: message,
		Data: domain.NotificationData{
			Decision:     decision.String(),
			AppealID:     appeal.ID,
			SuspensionID: appeal.SuspensionID,
			ReviewedBy:   adminID,
		},
		DeliveryStatus: domain.DeliveryStatusPending,
		CreatedAt:      now,
	}
}

func (s *AppealService) publishDecisionEvent(
	ctx context.Context,
	appeal *domain.Appeal,
	notification *domain.Notification,
	decision domain.AppealStatus,
	adminID string,
	decidedAt time.Time,
) {
	if s.publisher == nil || notification == nil {
		return
	}

	msg := queue.AppealEventMessage{
		EventID:        uuid.NewString(),
		AppealID:       appeal.ID,
		NotificationID: notification.ID,
		UserID:         appeal.UserID,
		SuspensionID:   appeal.SuspensionID,
		Decision:       decision,
		ReviewedBy:     adminID,
		DecidedAt:      decidedAt,
	}

	if err := s.publisher.Publish(ctx, queue.AppealEventsQueue, msg); err != nil {
		// The decision is durable; delivery catches up when the broker does.
		s.logger.Error("failed to publish appeal decision event",
			zap.String("appealId", appeal.ID),
			zap.String("decision", decision.String()),
			zap.Error(err),
		)
		s.metrics.IncEventPublishFailure()
	}
}

func normalizeOptionalText(v *string) repository.OptionalText {
	if v == nil {
		return repository.OptionalText{}
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return repository.OptionalText{Set: true}
	}
	return repository.OptionalText{Set: true, Value: &trimmed}
}
