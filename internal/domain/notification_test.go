package domain

import (
	"errors"
	"testing"
)

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	valid := Notification{
		UserID:  "u-1",
		Type:    NotificationTypeAppealDecision,
		Title:   "Suspension appeal approved",
		Message: "Your account has been reactivated.",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	missingUser := valid
	missingUser.UserID = ""
	if err := missingUser.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation for missing user", err)
	}

	badType := valid
	badType.Type = "marketing"
	if err := badType.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation for invalid type", err)
	}
}

func TestNotificationDataScan(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"decision":"approved","appeal_id":"a-1","suspension_id":"s-1","reviewed_by":"admin-1"}`)

	var data NotificationData
	if err := data.Scan(raw); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if data.Decision != "approved" || data.AppealID != "a-1" {
		t.Fatalf("Scan() = %+v, want decision=approved appeal_id=a-1", data)
	}

	var fromNil NotificationData
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if fromNil != (NotificationData{}) {
		t.Fatalf("Scan(nil) = %+v, want zero value", fromNil)
	}

	if err := data.Scan(42); err == nil {
		t.Fatal("Scan(int) expected error")
	}
}
