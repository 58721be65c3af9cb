package migration

import (
	"metalflow-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.UserBranch{},
		&models.UserWorkAssignment{},
		&models.Item{},
		&models.ProductionArea{},
		&models.PickingList{},
		&models.PickingListLine{},
		&models.PickingListLineReservedMaterial{},
		&models.PickingListImportHistory{},
		&models.ImportFileLog{},
	)
}
