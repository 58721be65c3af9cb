package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PickingListStatus string

const (
	PickingListQueued      PickingListStatus = "Queued"
	PickingListPicking     PickingListStatus = "Picking"
	PickingListPacked      PickingListStatus = "Packed"
	PickingListReadyToShip PickingListStatus = "ReadyToShip"
	PickingListLoaded      PickingListStatus = "Loaded"
	PickingListShipped     PickingListStatus = "Shipped"
	PickingListCancelled   PickingListStatus = "Cancelled"
)

var pickingListFlow = []PickingListStatus{
	PickingListQueued,
	PickingListPicking,
	PickingListPacked,
	PickingListReadyToShip,
	PickingListLoaded,
	PickingListShipped,
}

func ParsePickingListStatus(s string) (PickingListStatus, bool) {
	for _, st := range append(pickingListFlow, PickingListCancelled) {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s PickingListStatus) IsTerminal() bool {
	return s == PickingListShipped || s == PickingListCancelled
}

// CanTransitionTo hanya mengizinkan maju satu langkah, atau Cancelled dari status non-terminal
func (s PickingListStatus) CanTransitionTo(next PickingListStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == PickingListCancelled {
		return true
	}
	for i, st := range pickingListFlow {
		if st == s {
			return i+1 < len(pickingListFlow) && pickingListFlow[i+1] == next
		}
	}
	return false
}

type PickingListLineType string

const (
	LineTypeCoil  PickingListLineType = "Coil"
	LineTypeSheet PickingListLineType = "Sheet"
)

type PickingListLineStatus string

const (
	LineOpen   PickingListLineStatus = "Open"
	LinePicked PickingListLineStatus = "Picked"
	LinePacked PickingListLineStatus = "Packed"
)

func (s PickingListLineStatus) CanTransitionTo(next PickingListLineStatus) bool {
	switch s {
	case LineOpen:
		return next == LinePicked
	case LinePicked:
		return next == LinePacked
	}
	return false
}

// PickingList diidentifikasi oleh (branch_id, picking_list_number)
type PickingList struct {
	gorm.Model
	BranchID          uint              `json:"branch_id" gorm:"not null;uniqueIndex:idx_picking_list_branch_no"`
	Branch            *Branch           `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	PickingListNumber string            `json:"picking_list_number" gorm:"size:50;not null;uniqueIndex:idx_picking_list_branch_no"`
	PrintDate         *time.Time        `json:"print_date"`
	ShipDate          *time.Time        `json:"ship_date"`
	Buyer             string            `json:"buyer" gorm:"size:100"`
	SalesRep          string            `json:"sales_rep" gorm:"size:100"`
	ShipVia           string            `json:"ship_via" gorm:"size:100"`
	SoldTo            string            `json:"sold_to" gorm:"size:200"`
	ShipTo            string            `json:"ship_to" gorm:"size:200"`
	OrderInstructions string            `json:"order_instructions" gorm:"type:text"`
	TotalWeightLbs    decimal.Decimal   `json:"total_weight_lbs" gorm:"type:decimal(18,2)"`
	Status            PickingListStatus `json:"status" gorm:"size:20;not null"`

	Lines []PickingListLine `json:"lines" gorm:"foreignKey:PickingListID;references:ID;constraint:OnDelete:CASCADE"`
}

// PickingListLine unik per (picking_list_id, line_number)
type PickingListLine struct {
	gorm.Model
	PickingListID    uint                  `json:"picking_list_id" gorm:"not null;uniqueIndex:idx_picking_list_line_no"`
	LineNumber       int                   `json:"line_number" gorm:"not null;uniqueIndex:idx_picking_list_line_no"`
	ItemID           *uint                 `json:"item_id"`
	Item             *Item                 `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	ItemCode         string                `json:"item_code" gorm:"size:50;not null"`
	Description      string                `json:"description" gorm:"size:200"`
	OrderQuantity    decimal.Decimal       `json:"order_quantity" gorm:"type:decimal(18,2)"`
	OrderUnit        string                `json:"order_unit" gorm:"size:10"`
	WidthIn          decimal.Decimal       `json:"width_in" gorm:"type:decimal(18,2)"`
	LengthIn         decimal.Decimal       `json:"length_in" gorm:"type:decimal(18,2)"`
	LineWeightLbs    decimal.Decimal       `json:"line_weight_lbs" gorm:"type:decimal(18,2)"`
	LineInstructions string                `json:"line_instructions" gorm:"type:text"`
	ProductionAreaID uint                  `json:"production_area_id" gorm:"not null"`
	ProductionArea   *ProductionArea       `json:"production_area,omitempty" gorm:"foreignKey:ProductionAreaID"`
	LineType         PickingListLineType   `json:"line_type" gorm:"size:10"`
	LineStatus       PickingListLineStatus `json:"line_status" gorm:"size:10;not null"`

	ReservedMaterials []PickingListLineReservedMaterial `json:"reserved_materials" gorm:"foreignKey:PickingListLineID;references:ID;constraint:OnDelete:CASCADE"`
}

// Reserved material selalu di-replace penuh setiap import, jadi tanpa soft delete
type PickingListLineReservedMaterial struct {
	ID                uint            `json:"ID" gorm:"primaryKey"`
	PickingListLineID uint            `json:"picking_list_line_id" gorm:"not null;uniqueIndex:idx_reserved_line_tag"`
	TagNumber         string          `json:"tag_number" gorm:"size:50;not null;uniqueIndex:idx_reserved_line_tag"`
	MillRef           string          `json:"mill_ref" gorm:"size:50"`
	Quantity          decimal.Decimal `json:"quantity" gorm:"type:decimal(18,2)"`
	Unit              string          `json:"unit" gorm:"size:10"`
	Size              string          `json:"size" gorm:"size:100"`
	Location          string          `json:"location" gorm:"size:50"`
	CreatedAt         time.Time       `json:"created_at"`
}
