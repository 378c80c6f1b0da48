package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"legalis-admin/internal/repository"
)

func createUserSuspensionsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_user_suspensions",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.SuspensionModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_user_suspensions_user_status ON user_suspensions (user_id, status)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.SuspensionModel{})
		},
	}
}
