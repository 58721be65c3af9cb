package pickinglist

import (
	"strings"
	"time"

	"metalflow-app/models"

	"github.com/shopspring/decimal"
)

const (
	UnitPCS = "PCS"
	UnitLBS = "LBS"
)

// NumericField membedakan field yang tidak ada, ada tapi tidak valid, dan ada dan valid
type NumericField struct {
	Value   decimal.Decimal `json:"value"`
	Present bool            `json:"present"`
	Valid   bool            `json:"valid"`
}

// ImportDocument adalah hasil parse satu teks picking list
type ImportDocument struct {
	PickingListNumber string        `json:"picking_list_number"`
	PrintDate         *time.Time    `json:"print_date"`
	ShipDate          *time.Time    `json:"ship_date"`
	Buyer             string        `json:"buyer"`
	SalesRep          string        `json:"sales_rep"`
	ShipVia           string        `json:"ship_via"`
	SoldTo            string        `json:"sold_to"`
	ShipTo            string        `json:"ship_to"`
	TotalWeightLbs    NumericField  `json:"total_weight_lbs"`
	OrderInstructions string        `json:"order_instructions"`
	Lines             []*ImportLine `json:"lines"`
}

type ImportLine struct {
	LineNumber        int                       `json:"line_number"`
	LineNumberValid   bool                      `json:"line_number_valid"`
	ItemCode          string                    `json:"item_code"`
	Description       string                    `json:"description"`
	OrderQty          NumericField              `json:"order_qty"`
	OrderUnit         string                    `json:"order_unit"`
	WidthIn           NumericField              `json:"width_in"`
	LengthIn          NumericField              `json:"length_in"`
	LineWeightLbs     NumericField              `json:"line_weight_lbs"`
	LineInstructions  string                    `json:"line_instructions"`
	ReservedMaterials []*ImportReservedMaterial `json:"reserved_materials"`
}

type ImportReservedMaterial struct {
	TagNumber string          `json:"tag_number"`
	MillRef   string          `json:"mill_ref"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	Size      string          `json:"size"`
	Location  string          `json:"location"`
}

// LineType diturunkan dari unit: PCS berarti Sheet, selain itu Coil
func (l *ImportLine) LineType() models.PickingListLineType {
	if strings.EqualFold(l.OrderUnit, UnitPCS) {
		return models.LineTypeSheet
	}
	return models.LineTypeCoil
}

// ItemCodes mengembalikan item code unik sesuai urutan kemunculan
func (d *ImportDocument) ItemCodes() []string {
	seen := make(map[string]bool, len(d.Lines))
	codes := make([]string, 0, len(d.Lines))
	for _, line := range d.Lines {
		if line.ItemCode == "" || seen[line.ItemCode] {
			continue
		}
		seen[line.ItemCode] = true
		codes = append(codes, line.ItemCode)
	}
	return codes
}
