package repositories

import (
	"metalflow-app/models"

	"gorm.io/gorm"
)

type ProductionAreaRepository struct {
	DB *gorm.DB
}

func NewProductionAreaRepository(DB *gorm.DB) *ProductionAreaRepository {
	return &ProductionAreaRepository{DB: DB}
}

func (r *ProductionAreaRepository) ListActiveByBranch(branchID uint) ([]models.ProductionArea, error) {
	var areas []models.ProductionArea
	err := r.DB.Where("branch_id = ? AND is_active = ?", branchID, true).
		Order("code").
		Find(&areas).Error
	return areas, err
}

// ActiveByIDs memuat area aktif milik branchID, di-index berdasarkan ID
func (r *ProductionAreaRepository) ActiveByIDs(branchID uint, ids []uint) (map[uint]models.ProductionArea, error) {
	result := make(map[uint]models.ProductionArea, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var areas []models.ProductionArea
	if err := r.DB.Where("id IN ? AND branch_id = ? AND is_active = ?", ids, branchID, true).
		Find(&areas).Error; err != nil {
		return nil, err
	}
	for _, a := range areas {
		result[a.ID] = a
	}
	return result, nil
}
