package domain

import (
	"fmt"
	"strings"
	"time"
)

// SuspensionStatus represents the lifecycle state of an account suspension.
type SuspensionStatus string

const (
	SuspensionStatusActive SuspensionStatus = "active"
	SuspensionStatusLifted SuspensionStatus = "lifted"
)

func (s SuspensionStatus) String() string { return string(s) }

func (s SuspensionStatus) IsValid() bool {
	switch s {
	case SuspensionStatusActive, SuspensionStatusLifted:
		return true
	}
	return false
}

func ParseSuspensionStatusFromString(s string) (SuspensionStatus, error) {
	st := SuspensionStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid suspension status %q", ErrValidation, s)
	}
	return st, nil
}

// Suspension records why and for how long a user account was suspended.
// It is lifted at most once, by an approved appeal referencing it.
type Suspension struct {
	ID           string
	UserID       string
	Reason       string
	Status       SuspensionStatus
	LiftedAt     *time.Time
	LiftedBy     *string
	LiftedReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
