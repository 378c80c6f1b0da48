package queue

import (
	"fmt"
	"strings"
	"time"

	"legalis-admin/internal/domain"
)

// AppealEventMessage is the broker payload emitted after a committed
// appeal decision. It points at the notification row the push worker
// delivers to the client feed.
type AppealEventMessage struct {
	EventID        string              `json:"eventId"`
	AppealID       string              `json:"appealId"`
	NotificationID string              `json:"notificationId"`
	UserID         string              `json:"userId"`
	SuspensionID   string              `json:"suspensionId"`
	Decision       domain.AppealStatus `json:"decision"`
	ReviewedBy     string              `json:"reviewedBy"`
	DecidedAt      time.Time           `json:"decidedAt"`
}

func (m AppealEventMessage) Validate() error {
	if strings.TrimSpace(m.EventID) == "" {
		return fmt.Errorf("eventId is required")
	}
	if strings.TrimSpace(m.AppealID) == "" {
		return fmt.Errorf("appealId is required")
	}
	if strings.TrimSpace(m.NotificationID) == "" {
		return fmt.Errorf("notificationId is required")
	}
	if !m.Decision.IsDecided() {
		return fmt.Errorf("decision %q is not a final decision", m.Decision)
	}
	return nil
}
