package domain

import "time"

// AccountStatus represents the standing of a user account.
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "active"
	AccountStatusSuspended   AccountStatus = "suspended"
	AccountStatusDeactivated AccountStatus = "deactivated"
)

func (s AccountStatus) String() string { return string(s) }

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusDeactivated:
		return true
	}
	return false
}

// User is the platform account an appeal ultimately restores.
type User struct {
	ID            string
	FullName      string
	Email         string
	AccountStatus AccountStatus
	SuspensionEnd *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
