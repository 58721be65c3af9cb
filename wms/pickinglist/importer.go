package pickinglist

import (
	"context"
	"fmt"

	"metalflow-app/models"
	"metalflow-app/repositories"
	"metalflow-app/types"
	"metalflow-app/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	SourceText    = "text"
	SourceSheet   = "sheet"
	SourceInbox   = "inbox"
	SourceCommand = "cli"
	defaultSource = SourceText
)

// ImportMeta dicatat di import history, tidak mempengaruhi hasil merge
type ImportMeta struct {
	UserID string
	Source string
}

type ImportSummary struct {
	ImportID          types.SnowflakeID `json:"import_id"`
	BranchID          uint              `json:"branch_id"`
	PickingListID     uint              `json:"picking_list_id"`
	PickingListNumber string            `json:"picking_list_number"`
	ListCreated       bool              `json:"list_created"`
	LinesCreated      int               `json:"lines_created"`
	LinesUpdated      int               `json:"lines_updated"`
	ReservedMaterials int               `json:"reserved_materials"`
	UnmatchedLines    []int             `json:"unmatched_lines"`
}

type Importer struct {
	DB *gorm.DB
}

func NewImporter(DB *gorm.DB) *Importer {
	return &Importer{DB: DB}
}

// Import menggabungkan dokumen yang sudah lolos validasi ke database dalam satu transaksi.
// routing wajib berisi production area untuk setiap line number di dokumen.
func (im *Importer) Import(ctx context.Context, doc *ImportDocument, branchID uint, routing map[int]uint, meta ImportMeta) (summary *ImportSummary, err error) {
	// import tidak dibatalkan di tengah jalan, hanya commit atau rollback penuh
	ctx = context.WithoutCancel(ctx)
	if meta.Source == "" {
		meta.Source = defaultSource
	}
	log := utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"branch_id":       branchID,
		"picking_list_no": doc.PickingListNumber,
		"user_id":         meta.UserID,
	})

	tx := im.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "failed to start transaction")
	}

	// Jika terjadi panic, rollback transaksi
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			summary = nil
			err = errors.Errorf("picking list import aborted: %v", r)
			log.WithError(err).Error("picking list import panicked")
		}
	}()

	summary, err = im.apply(tx, doc, branchID, routing, meta)
	if err != nil {
		tx.Rollback()
		log.WithError(err).Warn("picking list import rolled back")
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.Wrap(err, "failed to commit picking list import")
	}

	log.WithFields(logrus.Fields{
		"import_id":     summary.ImportID.String(),
		"list_created":  summary.ListCreated,
		"lines_created": summary.LinesCreated,
		"lines_updated": summary.LinesUpdated,
	}).Info("picking list imported")
	return summary, nil
}

func (im *Importer) apply(tx *gorm.DB, doc *ImportDocument, branchID uint, routing map[int]uint, meta ImportMeta) (*ImportSummary, error) {
	listRepo := repositories.NewPickingListRepository(tx)

	// item di-resolve ulang di dalam transaksi, hasil Validate bisa sudah basi
	codes := doc.ItemCodes()
	itemIDs, err := repositories.NewItemRepository(tx).ActiveIDsByCode(codes)
	if err != nil {
		return nil, errors.Wrap(err, "lookup item codes")
	}
	var missing []string
	for _, code := range codes {
		if _, ok := itemIDs[code]; !ok {
			missing = append(missing, fmt.Sprintf("item code %s not found in item master", code))
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Errors: missing}
	}

	areas, err := repositories.NewProductionAreaRepository(tx).ActiveByIDs(branchID, routedAreaIDs(routing))
	if err != nil {
		return nil, errors.Wrap(err, "load production areas")
	}

	list, err := listRepo.FindByBranchAndNumber(branchID, doc.PickingListNumber)
	if err != nil {
		return nil, errors.Wrap(err, "find picking list")
	}

	summary := &ImportSummary{BranchID: branchID, PickingListNumber: doc.PickingListNumber, UnmatchedLines: []int{}}
	if list == nil {
		summary.ListCreated = true
		list = &models.PickingList{
			BranchID:          branchID,
			PickingListNumber: doc.PickingListNumber,
			Status:            models.PickingListQueued,
		}
	}
	applyHeader(list, doc)

	if summary.ListCreated {
		err = listRepo.Create(list)
	} else {
		err = listRepo.Save(list)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "save picking list %s", doc.PickingListNumber)
	}
	summary.PickingListID = list.ID

	existing, err := listRepo.LinesByList(list.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load picking list lines")
	}
	imported := make(map[int]bool, len(doc.Lines))

	for _, in := range doc.Lines {
		areaID, ok := routing[in.LineNumber]
		if !ok {
			return nil, &RoutingNotAssignedError{LineNumber: in.LineNumber}
		}
		if _, ok := areas[areaID]; !ok {
			return nil, &InvalidRoutingAreaError{LineNumber: in.LineNumber, ProductionAreaID: areaID}
		}

		line, found := existing[in.LineNumber]
		if !found {
			line = &models.PickingListLine{
				PickingListID: list.ID,
				LineNumber:    in.LineNumber,
				LineStatus:    models.LineOpen,
			}
			existing[in.LineNumber] = line
			summary.LinesCreated++
		} else if !imported[in.LineNumber] {
			summary.LinesUpdated++
		}
		imported[in.LineNumber] = true

		itemID := itemIDs[in.ItemCode]
		line.ItemID = &itemID
		line.ItemCode = in.ItemCode
		line.Description = in.Description
		line.OrderQuantity = in.OrderQty.Value
		line.OrderUnit = in.OrderUnit
		line.WidthIn = in.WidthIn.Value
		line.LengthIn = in.LengthIn.Value
		line.LineWeightLbs = in.LineWeightLbs.Value
		line.LineInstructions = in.LineInstructions
		line.LineType = in.LineType()
		line.ProductionAreaID = areaID

		if err := listRepo.SaveLine(line); err != nil {
			return nil, errors.Wrapf(err, "save line %d", in.LineNumber)
		}

		materials := toReservedMaterials(in.ReservedMaterials)
		if err := listRepo.ReplaceReservedMaterials(line.ID, materials); err != nil {
			return nil, errors.Wrapf(err, "replace reserved materials of line %d", in.LineNumber)
		}
		summary.ReservedMaterials += len(materials)
	}

	// line lama yang tidak ada di dokumen dibiarkan, hanya dilaporkan
	for number := range existing {
		if !imported[number] {
			summary.UnmatchedLines = append(summary.UnmatchedLines, number)
		}
	}
	slices.Sort(summary.UnmatchedLines)

	history := &models.PickingListImportHistory{
		BranchID:          branchID,
		PickingListID:     list.ID,
		PickingListNumber: list.PickingListNumber,
		UserID:            meta.UserID,
		Source:            meta.Source,
		ListCreated:       summary.ListCreated,
		LinesCreated:      summary.LinesCreated,
		LinesUpdated:      summary.LinesUpdated,
		ReservedMaterials: summary.ReservedMaterials,
	}
	if err := utils.InsertImportHistory(tx, history); err != nil {
		return nil, err
	}
	summary.ImportID = history.ID
	return summary, nil
}

// applyHeader: header selalu "last import wins"
func applyHeader(list *models.PickingList, doc *ImportDocument) {
	list.PrintDate = doc.PrintDate
	list.ShipDate = doc.ShipDate
	list.Buyer = doc.Buyer
	list.SalesRep = doc.SalesRep
	list.ShipVia = doc.ShipVia
	list.SoldTo = doc.SoldTo
	list.ShipTo = doc.ShipTo
	list.OrderInstructions = doc.OrderInstructions
	list.TotalWeightLbs = doc.TotalWeightLbs.Value
}

func toReservedMaterials(in []*ImportReservedMaterial) []models.PickingListLineReservedMaterial {
	out := make([]models.PickingListLineReservedMaterial, 0, len(in))
	for _, m := range in {
		out = append(out, models.PickingListLineReservedMaterial{
			TagNumber: m.TagNumber,
			MillRef:   m.MillRef,
			Quantity:  m.Quantity,
			Unit:      m.Unit,
			Size:      m.Size,
			Location:  m.Location,
		})
	}
	return out
}

func routedAreaIDs(routing map[int]uint) []uint {
	ids := make([]uint, 0, len(routing))
	for _, id := range routing {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
