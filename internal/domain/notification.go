package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NotificationType identifies the kind of notification delivered to a user.
type NotificationType string

const (
	NotificationTypeAppealDecision NotificationType = "appeal_decision"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	return t == NotificationTypeAppealDecision
}

// DeliveryStatus tracks push delivery of a notification to the client feed.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusDelivered, DeliveryStatusFailed:
		return true
	}
	return false
}

// NotificationData is the structured payload stored in the jsonb data column.
type NotificationData struct {
	Decision     string `json:"decision"`
	AppealID     string `json:"appeal_id"`
	SuspensionID string `json:"suspension_id"`
	ReviewedBy   string `json:"reviewed_by"`
}

func (d NotificationData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *NotificationData) Scan(value any) error {
	if value == nil {
		*d = NotificationData{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported notification data type %T", value)
	}
}

// Notification is an append-only record of a decision message addressed
// to the appealing user.
type Notification struct {
	ID               string
	UserID           string
	Type             NotificationType
	Title            string
	Message          string
	Data             NotificationData
	DeliveryStatus   DeliveryStatus
	DeliveryAttempts int
	DeliveredAt      *time.Time
	CreatedAt        time.Time
}

func (n *Notification) Validate() error {
	if n.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if n.Message == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: invalid notification type %q", ErrValidation, n.Type)
	}
	return nil
}
