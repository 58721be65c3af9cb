package repositories

import (
	"errors"
	"metalflow-app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PickingListRepository struct {
	DB *gorm.DB
}

func NewPickingListRepository(DB *gorm.DB) *PickingListRepository {
	return &PickingListRepository{DB: DB}
}

// FindByBranchAndNumber mengembalikan nil jika belum ada
func (r *PickingListRepository) FindByBranchAndNumber(branchID uint, number string) (*models.PickingList, error) {
	var list models.PickingList
	err := r.DB.Where("branch_id = ? AND picking_list_number = ?", branchID, number).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *PickingListRepository) Create(list *models.PickingList) error {
	return r.DB.Omit(clause.Associations).Create(list).Error
}

func (r *PickingListRepository) Save(list *models.PickingList) error {
	return r.DB.Omit(clause.Associations).Save(list).Error
}

// LinesByList mengembalikan line yang sudah ada, di-index berdasarkan line number
func (r *PickingListRepository) LinesByList(listID uint) (map[int]*models.PickingListLine, error) {
	var lines []models.PickingListLine
	if err := r.DB.Where("picking_list_id = ?", listID).Find(&lines).Error; err != nil {
		return nil, err
	}

	result := make(map[int]*models.PickingListLine, len(lines))
	for i := range lines {
		result[lines[i].LineNumber] = &lines[i]
	}
	return result, nil
}

func (r *PickingListRepository) SaveLine(line *models.PickingListLine) error {
	if line.ID == 0 {
		return r.DB.Omit(clause.Associations).Create(line).Error
	}
	return r.DB.Omit(clause.Associations).Save(line).Error
}

// ReplaceReservedMaterials menghapus semua reserved material milik line lalu insert ulang
func (r *PickingListRepository) ReplaceReservedMaterials(lineID uint, materials []models.PickingListLineReservedMaterial) error {
	if err := r.DB.Where("picking_list_line_id = ?", lineID).
		Delete(&models.PickingListLineReservedMaterial{}).Error; err != nil {
		return err
	}
	if len(materials) == 0 {
		return nil
	}
	for i := range materials {
		materials[i].ID = 0
		materials[i].PickingListLineID = lineID
	}
	return r.DB.Create(&materials).Error
}

// FindByID memuat list lengkap dengan line, reserved material dan production area
func (r *PickingListRepository) FindByID(branchID, id uint) (*models.PickingList, error) {
	var list models.PickingList
	err := r.DB.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_number") }).
		Preload("Lines.ReservedMaterials", func(db *gorm.DB) *gorm.DB { return db.Order("tag_number") }).
		Preload("Lines.ProductionArea").
		Where("branch_id = ?", branchID).
		First(&list, id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *PickingListRepository) ListByBranch(branchID uint, status models.PickingListStatus) ([]models.PickingList, error) {
	var lists []models.PickingList
	query := r.DB.Where("branch_id = ?", branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&lists).Error
	return lists, err
}

func (r *PickingListRepository) UpdateStatus(id uint, status models.PickingListStatus) error {
	return r.DB.Model(&models.PickingList{}).Where("id = ?", id).Update("status", status).Error
}
