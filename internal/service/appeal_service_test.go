package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"legalis-admin/internal/domain"
	"legalis-admin/internal/queue"
	"legalis-admin/internal/repository"
)

type fakeAppealRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Appeal, error)
	listFn    func(ctx context.Context, params repository.AppealListParams) ([]domain.Appeal, int64, error)
	updateFn  func(ctx context.Context, id string, update repository.AppealUpdate) error
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeAppealRepo) GetByID(ctx context.Context, id string) (*domain.Appeal, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAppealRepo) List(ctx context.Context, params repository.AppealListParams) ([]domain.Appeal, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, 0, nil
}

func (f *fakeAppealRepo) Update(ctx context.Context, id string, update repository.AppealUpdate) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, update)
	}
	return nil
}

func (f *fakeAppealRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeSuspensionRepo struct {
	liftFn func(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error
}

func (f *fakeSuspensionRepo) GetByID(ctx context.Context, id string) (*domain.Suspension, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeSuspensionRepo) Lift(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error {
	if f.liftFn != nil {
		return f.liftFn(ctx, id, liftedBy, reason, at)
	}
	return nil
}

type fakeUserRepo struct {
	reactivateFn func(ctx context.Context, id string, at time.Time) error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Reactivate(ctx context.Context, id string, at time.Time) error {
	if f.reactivateFn != nil {
		return f.reactivateFn(ctx, id, at)
	}
	return nil
}

type fakeNotificationRepo struct {
	createFn            func(ctx context.Context, n *domain.Notification) error
	getByIDFn           func(ctx context.Context, id string) (*domain.Notification, error)
	markDeliveredFn     func(ctx context.Context, id string, at time.Time) error
	markFailedFn        func(ctx context.Context, id string) error
	incrementAttemptsFn func(ctx context.Context, id string) error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationRepo) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	if f.markDeliveredFn != nil {
		return f.markDeliveredFn(ctx, id, at)
	}
	return nil
}

func (f *fakeNotificationRepo) MarkFailed(ctx context.Context, id string) error {
	if f.markFailedFn != nil {
		return f.markFailedFn(ctx, id)
	}
	return nil
}

func (f *fakeNotificationRepo) IncrementDeliveryAttempts(ctx context.Context, id string) error {
	if f.incrementAttemptsFn != nil {
		return f.incrementAttemptsFn(ctx, id)
	}
	return nil
}

type fakeTxManager struct {
	set repository.RepoSet
}

func (f *fakeTxManager) InTx(ctx context.Context, fn func(tx repository.RepoSet) error) error {
	return fn(f.set)
}

type fakePublisher struct {
	publishFn func(ctx context.Context, queueName string, msg queue.AppealEventMessage) error
}

func (f *fakePublisher) Publish(ctx context.Context, queueName string, msg queue.AppealEventMessage) error {
	if f.publishFn != nil {
		return f.publishFn(ctx, queueName, msg)
	}
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func pendingAppeal() *domain.Appeal {
	return &domain.Appeal{
		ID:           "a-1",
		UserID:       "u-1",
		SuspensionID: "s-1",
		AppealReason: "I believe the suspension was a mistake",
		Status:       domain.AppealStatusPending,
	}
}

func strPtr(s string) *string { return &s }

func newDecisionFixture(appealRepo *fakeAppealRepo, suspensions *fakeSuspensionRepo, users *fakeUserRepo, notifications *fakeNotificationRepo, publisher *fakePublisher) (*AppealService, error) {
	txm := &fakeTxManager{set: repository.RepoSet{
		Appeals:       appealRepo,
		Suspensions:   suspensions,
		Users:         users,
		Notifications: notifications,
	}}
	return NewAppealService(appealRepo, txm, publisher, nil)
}

func TestAppealServiceDecideApproveCascade(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()
	var capturedUpdate repository.AppealUpdate

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
		updateFn: func(ctx context.Context, id string, update repository.AppealUpdate) error {
			capturedUpdate = update
			appeal.Status = *update.Status
			return nil
		},
	}

	lifted := false
	suspensions := &fakeSuspensionRepo{
		liftFn: func(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error {
			if id != "s-1" {
				t.Fatalf("lift suspension id = %s, want s-1", id)
			}
			if liftedBy != "admin-1" {
				t.Fatalf("lifted by = %s, want admin-1", liftedBy)
			}
			if reason != "Appeal approved" {
				t.Fatalf("lift reason = %q, want %q", reason, "Appeal approved")
			}
			lifted = true
			return nil
		},
	}

	reactivated := false
	users := &fakeUserRepo{
		reactivateFn: func(ctx context.Context, id string, at time.Time) error {
			if id != "u-1" {
				t.Fatalf("reactivate user id = %s, want u-1", id)
			}
			reactivated = true
			return nil
		},
	}

	var createdNotification *domain.Notification
	notifications := &fakeNotificationRepo{
		createFn: func(ctx context.Context, n *domain.Notification) error {
			createdNotification = n
			return nil
		},
	}

	var publishedMsg *queue.AppealEventMessage
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.AppealEventMessage) error {
			if queueName != queue.AppealEventsQueue {
				t.Fatalf("queue name = %s, want %s", queueName, queue.AppealEventsQueue)
			}
			publishedMsg = &msg
			return nil
		},
	}

	svc, err := newDecisionFixture(appealRepo, suspensions, users, notifications, publisher)
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	// Mixed-case status must normalize to lowercase before persisting.
	updated, err := svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{Status: strPtr("APPROVED")})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if capturedUpdate.Status == nil || *capturedUpdate.Status != domain.AppealStatusApproved {
		t.Fatalf("persisted status = %v, want approved", capturedUpdate.Status)
	}
	if capturedUpdate.ReviewedBy != "admin-1" {
		t.Fatalf("reviewed by = %s, want admin-1", capturedUpdate.ReviewedBy)
	}
	if !lifted {
		t.Fatal("suspension should be lifted on approval")
	}
	if !reactivated {
		t.Fatal("user should be reactivated on approval")
	}
	if createdNotification == nil {
		t.Fatal("approval notification should be created")
	}
	if createdNotification.Type != domain.NotificationTypeAppealDecision {
		t.Fatalf("notification type = %s, want appeal_decision", createdNotification.Type)
	}
	if createdNotification.Data.Decision != "approved" {
		t.Fatalf("notification decision = %s, want approved", createdNotification.Data.Decision)
	}
	if createdNotification.UserID != "u-1" {
		t.Fatalf("notification user = %s, want u-1", createdNotification.UserID)
	}
	if publishedMsg == nil {
		t.Fatal("decision event should be published after commit")
	}
	if publishedMsg.NotificationID != createdNotification.ID {
		t.Fatal("event should reference the created notification")
	}
	if updated == nil || updated.Status != domain.AppealStatusApproved {
		t.Fatalf("returned appeal = %+v, want approved", updated)
	}
}

func TestAppealServiceDecideRejection(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()
	var capturedUpdate repository.AppealUpdate

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
		updateFn: func(ctx context.Context, id string, update repository.AppealUpdate) error {
			capturedUpdate = update
			return nil
		},
	}

	suspensions := &fakeSuspensionRepo{
		liftFn: func(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error {
			t.Fatal("rejection must not touch the suspension")
			return nil
		},
	}
	users := &fakeUserRepo{
		reactivateFn: func(ctx context.Context, id string, at time.Time) error {
			t.Fatal("rejection must not touch the user")
			return nil
		},
	}

	var createdNotification *domain.Notification
	notifications := &fakeNotificationRepo{
		createFn: func(ctx context.Context, n *domain.Notification) error {
			createdNotification = n
			return nil
		},
	}

	svc, err := newDecisionFixture(appealRepo, suspensions, users, notifications, &fakePublisher{})
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{
		Status:          strPtr("rejected"),
		RejectionReason: strPtr("  insufficient evidence  "),
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if !capturedUpdate.RejectionReason.Set {
		t.Fatal("rejection reason should be persisted")
	}
	if capturedUpdate.RejectionReason.Value == nil || *capturedUpdate.RejectionReason.Value != "insufficient evidence" {
		t.Fatalf("rejection reason = %v, want trimmed %q", capturedUpdate.RejectionReason.Value, "insufficient evidence")
	}
	if createdNotification == nil {
		t.Fatal("rejection notification should be created")
	}
	if createdNotification.Data.Decision != "rejected" {
		t.Fatalf("notification decision = %s, want rejected", createdNotification.Data.Decision)
	}
}

func TestAppealServiceDecideNotesOnlySkipsCascade(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()
	var capturedUpdate repository.AppealUpdate

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
		updateFn: func(ctx context.Context, id string, update repository.AppealUpdate) error {
			capturedUpdate = update
			return nil
		},
	}

	notifications := &fakeNotificationRepo{
		createFn: func(ctx context.Context, n *domain.Notification) error {
			t.Fatal("notes-only update must not create a notification")
			return nil
		},
	}
	published := false
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.AppealEventMessage) error {
			published = true
			return nil
		},
	}

	svc, err := newDecisionFixture(appealRepo, &fakeSuspensionRepo{}, &fakeUserRepo{}, notifications, publisher)
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{AdminNotes: strPtr("  ok  ")})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if capturedUpdate.Status != nil {
		t.Fatal("status should not be touched")
	}
	if capturedUpdate.AdminNotes.Value == nil || *capturedUpdate.AdminNotes.Value != "ok" {
		t.Fatalf("admin notes = %v, want trimmed %q", capturedUpdate.AdminNotes.Value, "ok")
	}
	if capturedUpdate.ReviewedBy != "admin-1" {
		t.Fatal("review stamps should still be written")
	}
	if published {
		t.Fatal("notes-only update must not publish an event")
	}
}

func TestAppealServiceDecideBlankNotesBecomeNull(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()
	var capturedUpdate repository.AppealUpdate

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
		updateFn: func(ctx context.Context, id string, update repository.AppealUpdate) error {
			capturedUpdate = update
			return nil
		},
	}

	svc, err := newDecisionFixture(appealRepo, &fakeSuspensionRepo{}, &fakeUserRepo{}, &fakeNotificationRepo{}, &fakePublisher{})
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{AdminNotes: strPtr("   ")})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if !capturedUpdate.AdminNotes.Set {
		t.Fatal("blank notes should still be applied")
	}
	if capturedUpdate.AdminNotes.Value != nil {
		t.Fatalf("admin notes = %q, want NULL", *capturedUpdate.AdminNotes.Value)
	}
}

func TestAppealServiceDecideMissingAppeal(t *testing.T) {
	t.Parallel()

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc, err := newDecisionFixture(appealRepo, &fakeSuspensionRepo{}, &fakeUserRepo{}, &fakeNotificationRepo{}, &fakePublisher{})
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "does-not-exist", "admin-1", DecisionInput{Status: strPtr("approved")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Decide() error = %v, want ErrNotFound", err)
	}
}

func TestAppealServiceDecideAlreadyDecidedConflicts(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()
	appeal.Status = domain.AppealStatusRejected

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
		updateFn: func(ctx context.Context, id string, update repository.AppealUpdate) error {
			t.Fatal("no update should be attempted on conflict")
			return nil
		},
	}

	svc, err := newDecisionFixture(appealRepo, &fakeSuspensionRepo{}, &fakeUserRepo{}, &fakeNotificationRepo{}, &fakePublisher{})
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{Status: strPtr("approved")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Decide() error = %v, want ErrConflict", err)
	}
}

func TestAppealServiceDecideInvalidStatus(t *testing.T) {
	t.Parallel()

	svc, err := newDecisionFixture(&fakeAppealRepo{}, &fakeSuspensionRepo{}, &fakeUserRepo{}, &fakeNotificationRepo{}, &fakePublisher{})
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{Status: strPtr("escalated")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Decide() error = %v, want ErrValidation", err)
	}
}

func TestAppealServiceDecideCascadeFailureRollsBack(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
	}
	suspensions := &fakeSuspensionRepo{
		liftFn: func(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error {
			return errors.New("suspension row locked")
		},
	}
	published := false
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.AppealEventMessage) error {
			published = true
			return nil
		},
	}

	svc, err := newDecisionFixture(appealRepo, suspensions, &fakeUserRepo{}, &fakeNotificationRepo{}, publisher)
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{Status: strPtr("approved")})
	if !errors.Is(err, ErrApprovalCascade) {
		t.Fatalf("Decide() error = %v, want ErrApprovalCascade", err)
	}
	if !errors.Is(err, domain.ErrCascade) {
		t.Fatalf("Decide() error = %v, want wrapped ErrCascade", err)
	}
	if published {
		t.Fatal("no event should be published when the transaction fails")
	}
}

func TestAppealServiceDecideRejectionNotifyFailure(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
	}
	notifications := &fakeNotificationRepo{
		createFn: func(ctx context.Context, n *domain.Notification) error {
			return errors.New("insert failed")
		},
	}

	svc, err := newDecisionFixture(appealRepo, &fakeSuspensionRepo{}, &fakeUserRepo{}, notifications, &fakePublisher{})
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	_, err = svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{Status: strPtr("rejected")})
	if !errors.Is(err, ErrRejectionNotify) {
		t.Fatalf("Decide() error = %v, want ErrRejectionNotify", err)
	}
}

func TestAppealServiceDecidePublishFailureDoesNotFailDecision(t *testing.T) {
	t.Parallel()

	appeal := pendingAppeal()

	appealRepo := &fakeAppealRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Appeal, error) {
			copied := *appeal
			return &copied, nil
		},
	}
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.AppealEventMessage) error {
			return errors.New("broker unavailable")
		},
	}

	svc, err := newDecisionFixture(appealRepo, &fakeSuspensionRepo{}, &fakeUserRepo{}, &fakeNotificationRepo{}, publisher)
	if err != nil {
		t.Fatalf("NewAppealService() error = %v", err)
	}

	updated, err := svc.Decide(context.Background(), "a-1", "admin-1", DecisionInput{Status: strPtr("approved")})
	if err != nil {
		t.Fatalf("Decide() error = %v, publish failure must not fail the decision", err)
	}
	if updated == nil {
		t.Fatal("updated appeal should be returned")
	}
}
