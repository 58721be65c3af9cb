package repositories

import (
	"errors"
	"metalflow-app/models"

	"gorm.io/gorm"
)

type BranchRepository struct {
	DB *gorm.DB
}

func NewBranchRepository(DB *gorm.DB) *BranchRepository {
	return &BranchRepository{DB: DB}
}

// ActiveAssignmentBranch mengembalikan branch dari penugasan aktif terbaru, nil jika tidak ada
func (r *BranchRepository) ActiveAssignmentBranch(userID string) (*uint, error) {
	var assignment models.UserWorkAssignment
	err := r.DB.
		Joins("JOIN branches ON branches.id = user_work_assignments.branch_id AND branches.deleted_at IS NULL").
		Where("user_work_assignments.user_id = ? AND user_work_assignments.is_active = ? AND branches.is_active = ?", userID, true, true).
		Order("user_work_assignments.updated_at DESC").
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment.BranchID, nil
}

// Memberships mengembalikan keanggotaan user pada branch yang aktif
func (r *BranchRepository) Memberships(userID string) ([]models.UserBranch, error) {
	var memberships []models.UserBranch
	err := r.DB.
		Joins("JOIN branches ON branches.id = user_branches.branch_id AND branches.deleted_at IS NULL").
		Where("user_branches.user_id = ? AND branches.is_active = ?", userID, true).
		Order("user_branches.id").
		Find(&memberships).Error
	return memberships, err
}

func (r *BranchRepository) GetByID(id uint) (*models.Branch, error) {
	var branch models.Branch
	err := r.DB.First(&branch, id).Error
	return &branch, err
}
