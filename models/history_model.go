package models

import (
	"metalflow-app/controllers/idgen"
	"metalflow-app/types"
	"time"

	"gorm.io/gorm"
)

// PickingListImportHistory mencatat setiap import yang berhasil di-commit
type PickingListImportHistory struct {
	ID                types.SnowflakeID `json:"ID" gorm:"primaryKey;autoIncrement:false"`
	BranchID          uint              `json:"branch_id" gorm:"index"`
	PickingListID     uint              `json:"picking_list_id" gorm:"index"`
	PickingListNumber string            `json:"picking_list_number" gorm:"size:50"`
	UserID            string            `json:"user_id" gorm:"size:100"`
	Source            string            `json:"source" gorm:"size:20"`
	ListCreated       bool              `json:"list_created"`
	LinesCreated      int               `json:"lines_created"`
	LinesUpdated      int               `json:"lines_updated"`
	ReservedMaterials int               `json:"reserved_materials"`
	CreatedAt         time.Time         `json:"created_at"`
}

func (h *PickingListImportHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
