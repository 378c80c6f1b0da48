package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"legalis-admin/internal/repository"
)

func createSuspensionAppealsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_suspension_appeals",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.AppealModel{}); err != nil {
				return err
			}
			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_suspension_appeals_user_id ON suspension_appeals (user_id)`,
				`CREATE INDEX IF NOT EXISTS idx_suspension_appeals_status_created ON suspension_appeals (status, created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_suspension_appeals_pending ON suspension_appeals (created_at) WHERE status = 'pending'`,
			}
			for _, sql := range indexes {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.AppealModel{})
		},
	}
}
