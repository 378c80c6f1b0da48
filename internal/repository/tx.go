package repository

import (
	"context"

	"gorm.io/gorm"
)

// RepoSet bundles the repositories the decision cascade writes through.
// Inside a transaction every repository is bound to the same gorm tx.
type RepoSet struct {
	Appeals       AppealRepository
	Suspensions   SuspensionRepository
	Users         UserRepository
	Notifications NotificationRepository
}

func NewRepoSet(db *gorm.DB) RepoSet {
	return RepoSet{
		Appeals:       NewGormAppealRepo(db),
		Suspensions:   NewGormSuspensionRepo(db),
		Users:         NewGormUserRepo(db),
		Notifications: NewGormNotificationRepo(db),
	}
}

// TxManager runs a function against a transaction-bound RepoSet. An error
// from fn rolls back every write made through the set.
type TxManager interface {
	InTx(ctx context.Context, fn func(tx RepoSet) error) error
}

type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) InTx(ctx context.Context, fn func(tx RepoSet) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepoSet(tx))
	})
}
