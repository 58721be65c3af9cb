package models

import (
	"time"

	"gorm.io/gorm"
)

type Branch struct {
	gorm.Model
	Code     string `json:"code" gorm:"size:10;unique;not null"`
	Name     string `json:"name" gorm:"size:100;not null"`
	City     string `json:"city" gorm:"size:100"`
	Region   string `json:"region" gorm:"size:100"`
	Country  string `json:"country" gorm:"size:100"`
	IsActive bool   `json:"is_active"`
}

// UserBranch adalah keanggotaan user di sebuah branch
type UserBranch struct {
	gorm.Model
	UserID    string `json:"user_id" gorm:"size:100;index;not null"`
	BranchID  uint   `json:"branch_id" gorm:"not null"`
	Branch    Branch `json:"branch" gorm:"foreignKey:BranchID"`
	RoleID    string `json:"role_id" gorm:"size:50"`
	IsDefault bool   `json:"is_default"`
}

type WorkMode string

const (
	WorkModeProductionArea WorkMode = "ProductionArea"
	WorkModePackingStation WorkMode = "PackingStation"
)

// UserWorkAssignment adalah penugasan shift yang sedang berjalan
type UserWorkAssignment struct {
	gorm.Model
	UserID           string    `json:"user_id" gorm:"size:100;index;not null"`
	BranchID         uint      `json:"branch_id" gorm:"not null"`
	Branch           Branch    `json:"branch" gorm:"foreignKey:BranchID"`
	WorkMode         WorkMode  `json:"work_mode" gorm:"size:20"`
	ProductionAreaID *uint     `json:"production_area_id"`
	Role             string    `json:"role" gorm:"size:20"`
	IsActive         bool      `json:"is_active"`
	StartedAt        time.Time `json:"started_at"`
}
