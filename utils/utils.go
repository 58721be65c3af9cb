package utils

import (
	"metalflow-app/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// InsertImportHistory menulis history import di dalam transaksi yang sama dengan import
func InsertImportHistory(tx *gorm.DB, history *models.PickingListImportHistory) error {
	if err := tx.Create(history).Error; err != nil {
		return errors.Wrap(err, "insert import history")
	}
	return nil
}
