package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemType string

const (
	ItemTypeCoil  ItemType = "Coil"
	ItemTypeSheet ItemType = "Sheet"
)

// Item master, di-lookup berdasarkan item_code saat import picking list
type Item struct {
	gorm.Model
	ItemCode     string          `json:"item_code" gorm:"size:50;unique;not null"`
	Description  string          `json:"description" gorm:"size:200;not null"`
	Type         ItemType        `json:"type" gorm:"size:10"`
	Uom          string          `json:"uom" gorm:"size:10"`
	ThicknessIn  decimal.Decimal `json:"thickness_in" gorm:"type:decimal(18,4)"`
	ParentItemID *uint           `json:"parent_item_id"`
	IsActive     bool            `json:"is_active"`
}

type ProductionAreaType string

const (
	AreaCTL          ProductionAreaType = "CTL"
	AreaSlitter      ProductionAreaType = "Slitter"
	AreaSheetPicking ProductionAreaType = "SheetPicking"
	AreaCoilPicking  ProductionAreaType = "CoilPicking"
	AreaPacking      ProductionAreaType = "Packing"
)

// ProductionArea adalah routing area untuk line picking list
type ProductionArea struct {
	gorm.Model
	BranchID uint               `json:"branch_id" gorm:"not null;index"`
	Code     string             `json:"code" gorm:"size:20;not null"`
	Name     string             `json:"name" gorm:"size:100;not null"`
	AreaType ProductionAreaType `json:"area_type" gorm:"size:20"`
	IsActive bool               `json:"is_active"`
}
