package repository

import (
	"time"

	"legalis-admin/internal/domain"
)

// AppealModel is the persistence model for the suspension_appeals table.
type AppealModel struct {
	ID              string              `gorm:"type:uuid;primaryKey"`
	UserID          string              `gorm:"type:uuid;not null"`
	SuspensionID    string              `gorm:"type:uuid;not null"`
	AppealReason    string              `gorm:"type:text;not null"`
	Status          domain.AppealStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ReviewedBy      *string             `gorm:"type:uuid"`
	ReviewedAt      *time.Time          `gorm:"type:timestamptz"`
	RejectionReason *string             `gorm:"type:text"`
	AdminNotes      *string             `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (AppealModel) TableName() string {
	return "suspension_appeals"
}

// appealRow is the read model for appeal queries joined with the user
// and suspension tables.
type appealRow struct {
	AppealModel
	UserFullName     *string `gorm:"column:user_full_name"`
	SuspensionReason *string `gorm:"column:suspension_reason"`
}

// SuspensionModel is the persistence model for the user_suspensions table.
type SuspensionModel struct {
	ID           string                  `gorm:"type:uuid;primaryKey"`
	UserID       string                  `gorm:"type:uuid;not null"`
	Reason       string                  `gorm:"type:text;not null"`
	Status       domain.SuspensionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LiftedAt     *time.Time              `gorm:"type:timestamptz"`
	LiftedBy     *string                 `gorm:"type:uuid"`
	LiftedReason *string                 `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (SuspensionModel) TableName() string {
	return "user_suspensions"
}

// UserModel is the persistence model for the users table.
type UserModel struct {
	ID            string               `gorm:"type:uuid;primaryKey"`
	FullName      string               `gorm:"type:varchar(255);not null"`
	Email         string               `gorm:"type:varchar(255);not null"`
	AccountStatus domain.AccountStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SuspensionEnd *time.Time           `gorm:"type:timestamptz"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// NotificationModel is the persistence model for the notifications table.
type NotificationModel struct {
	ID               string                  `gorm:"type:uuid;primaryKey"`
	UserID           string                  `gorm:"type:uuid;not null"`
	Type             domain.NotificationType `gorm:"type:varchar(30);not null"`
	Title            string                  `gorm:"type:varchar(255);not null"`
	Message          string                  `gorm:"type:text;not null"`
	Data             domain.NotificationData `gorm:"type:jsonb"`
	DeliveryStatus   domain.DeliveryStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	DeliveryAttempts int                     `gorm:"not null;default:0"`
	DeliveredAt      *time.Time              `gorm:"type:timestamptz"`
	CreatedAt        time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func appealRowToDomain(r *appealRow) *domain.Appeal {
	if r == nil {
		return nil
	}

	appeal := &domain.Appeal{
		ID:              r.ID,
		UserID:          r.UserID,
		SuspensionID:    r.SuspensionID,
		AppealReason:    r.AppealReason,
		Status:          r.Status,
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		RejectionReason: r.RejectionReason,
		AdminNotes:      r.AdminNotes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.UserFullName != nil {
		appeal.UserFullName = *r.UserFullName
	}
	if r.SuspensionReason != nil {
		appeal.SuspensionReason = *r.SuspensionReason
	}
	return appeal
}

func suspensionModelToDomain(m *SuspensionModel) *domain.Suspension {
	if m == nil {
		return nil
	}

	return &domain.Suspension{
		ID:           m.ID,
		UserID:       m.UserID,
		Reason:       m.Reason,
		Status:       m.Status,
		LiftedAt:     m.LiftedAt,
		LiftedBy:     m.LiftedBy,
		LiftedReason: m.LiftedReason,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userModelToDomain(m *UserModel) *domain.User {
	if m == nil {
		return nil
	}

	return &domain.User{
		ID:            m.ID,
		FullName:      m.FullName,
		Email:         m.Email,
		AccountStatus: m.AccountStatus,
		SuspensionEnd: m.SuspensionEnd,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:               n.ID,
		UserID:           n.UserID,
		Type:             n.Type,
		Title:            n.Title,
		Message:          n.Message,
		Data:             n.Data,
		DeliveryStatus:   n.DeliveryStatus,
		DeliveryAttempts: n.DeliveryAttempts,
		DeliveredAt:      n.DeliveredAt,
		CreatedAt:        n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:               m.ID,
		UserID:           m.UserID,
		Type:             m.Type,
		Title:            m.Title,
		Message:          m.Message,
		Data:             m.Data,
		DeliveryStatus:   m.DeliveryStatus,
		DeliveryAttempts: m.DeliveryAttempts,
		DeliveredAt:      m.DeliveredAt,
		CreatedAt:        m.CreatedAt,
	}
}
