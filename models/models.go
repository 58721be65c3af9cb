package models

import (
	"time"

	"metalflow-app/types"

	"gorm.io/gorm"
)

const (
	FileProcessed = "processed"
	FileFailed    = "failed"
)

// ImportFileLog mencatat file inbox yang sudah diproses
type ImportFileLog struct {
	gorm.Model
	Filename     string            `json:"filename" gorm:"size:255;index;not null"`
	DateModified time.Time         `json:"date_modified"`
	Status       string            `json:"status" gorm:"size:20"`
	ImportID     types.SnowflakeID `json:"import_id"`
	Message      string            `json:"message" gorm:"type:text"`
}
