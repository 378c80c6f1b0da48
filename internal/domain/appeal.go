package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppealStatus represents the review state of a suspension appeal.
type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "pending"
	AppealStatusApproved AppealStatus = "approved"
	AppealStatusRejected AppealStatus = "rejected"
)

func (s AppealStatus) String() string { return string(s) }

func (s AppealStatus) IsValid() bool {
	switch s {
	case AppealStatusPending, AppealStatusApproved, AppealStatusRejected:
		return true
	}
	return false
}

// IsDecided reports whether the appeal has received a final decision.
func (s AppealStatus) IsDecided() bool {
	return s == AppealStatusApproved || s == AppealStatusRejected
}

func ParseAppealStatusFromString(s string) (AppealStatus, error) {
	st := AppealStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid appeal status %q", ErrValidation, s)
	}
	return st, nil
}

// Appeal is a user's request to reverse an account suspension, reviewed
// by an admin. UserFullName and SuspensionReason are denormalized from
// the users and user_suspensions tables on reads.
type Appeal struct {
	ID              string
	UserID          string
	SuspensionID    string
	AppealReason    string
	Status          AppealStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	AdminNotes      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	UserFullName     string
	SuspensionReason string
}
