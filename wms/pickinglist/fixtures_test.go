package pickinglist

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"metalflow-app/migration"
	"metalflow-app/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testUser        = "u-1001"
	sheetItemCode   = "CR-1008-0036"
	coilItemCode    = "HR-A36-0250"
	retiredItemCode = "OLD-0001"
)

type fixture struct {
	DB          *gorm.DB
	Branch      models.Branch
	OtherBranch models.Branch
	SheetArea   models.ProductionArea
	CoilArea    models.ProductionArea
	ClosedArea  models.ProductionArea
	ForeignArea models.ProductionArea
}

// openTestDB memakai file sqlite di temp dir, satu database per test
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "picklist.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// newFixture menyiapkan dua branch, area routing dan item master.
// testUser adalah anggota default branch HOU.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	f := &fixture{DB: db}

	f.Branch = models.Branch{Code: "HOU", Name: "Houston", IsActive: true}
	f.OtherBranch = models.Branch{Code: "DAL", Name: "Dallas", IsActive: true}
	require.NoError(t, db.Create(&f.Branch).Error)
	require.NoError(t, db.Create(&f.OtherBranch).Error)

	f.SheetArea = models.ProductionArea{BranchID: f.Branch.ID, Code: "SHEET", Name: "Sheet Picking", AreaType: models.AreaSheetPicking, IsActive: true}
	f.CoilArea = models.ProductionArea{BranchID: f.Branch.ID, Code: "COIL", Name: "Coil Picking", AreaType: models.AreaCoilPicking, IsActive: true}
	f.ClosedArea = models.ProductionArea{BranchID: f.Branch.ID, Code: "OLD", Name: "Closed Bay", AreaType: models.AreaCTL, IsActive: false}
	f.ForeignArea = models.ProductionArea{BranchID: f.OtherBranch.ID, Code: "COIL", Name: "Dallas Coil", AreaType: models.AreaCoilPicking, IsActive: true}
	for _, area := range []*models.ProductionArea{&f.SheetArea, &f.CoilArea, &f.ClosedArea, &f.ForeignArea} {
		require.NoError(t, db.Create(area).Error)
	}

	items := []models.Item{
		{ItemCode: sheetItemCode, Description: "CR 1008 .036 SHEET", Type: models.ItemTypeSheet, Uom: "PCS", IsActive: true},
		{ItemCode: coilItemCode, Description: "HR A36 .250 COIL", Type: models.ItemTypeCoil, Uom: "LBS", IsActive: true},
		{ItemCode: retiredItemCode, Description: "retired", Type: models.ItemTypeCoil, Uom: "LBS", IsActive: false},
	}
	require.NoError(t, db.Create(&items).Error)

	require.NoError(t, db.Create(&models.UserBranch{UserID: testUser, BranchID: f.Branch.ID, IsDefault: true}).Error)
	return f
}

func (f *fixture) sampleRouting() map[int]uint {
	return map[int]uint{1: f.SheetArea.ID, 2: f.CoilArea.ID}
}

// generatedDocument membuat dokumen dengan n line coil berurutan
func generatedDocument(number string, n int, tagSuffix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PICKING_LIST_NO: %s\nBUYER: Generated\nTOTAL_WEIGHT_LBS: %d\nORDER_INSTRUCTIONS\n—\nLINES\n", number, n*100)
	for i := 1; i <= n; i++ {
		b.WriteString(minimalLine(fmt.Sprint(i), coilItemCode, UnitLBS,
			"RESERVED_MATERIALS:",
			fmt.Sprintf("- TAG_NUMBER: TAG-%d-%s", i, tagSuffix),
			"QTY: 100",
			"UNIT: LBS",
		))
		b.WriteString("\n")
	}
	return b.String()
}

func (f *fixture) coilRouting(n int) map[int]uint {
	routing := make(map[int]uint, n)
	for i := 1; i <= n; i++ {
		routing[i] = f.CoilArea.ID
	}
	return routing
}

// snapshot berisi field bisnis saja, tanpa surrogate ID dan timestamp
type snapshot struct {
	Header    string
	Lines     []string
	Materials []string
	Counts    [3]int64
}

func takeSnapshot(t *testing.T, db *gorm.DB, branchID uint, number string) snapshot {
	t.Helper()
	var s snapshot

	var lists []models.PickingList
	require.NoError(t, db.Where("branch_id = ? AND picking_list_number = ?", branchID, number).Find(&lists).Error)
	require.LessOrEqual(t, len(lists), 1)
	if len(lists) == 1 {
		l := lists[0]
		s.Header = fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s|%s|%s", l.PickingListNumber, formatTime(l.PrintDate), formatTime(l.ShipDate),
			l.Buyer, l.SalesRep, l.ShipVia, l.SoldTo, l.ShipTo, l.OrderInstructions, l.TotalWeightLbs.String()+"/"+string(l.Status))

		var lines []models.PickingListLine
		require.NoError(t, db.Preload("ReservedMaterials", func(db *gorm.DB) *gorm.DB { return db.Order("tag_number") }).
			Where("picking_list_id = ?", l.ID).Order("line_number").Find(&lines).Error)
		for _, line := range lines {
			s.Lines = append(s.Lines, fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s|%s|%s|%s|%d|%s", line.LineNumber, line.ItemCode, line.Description,
				line.OrderQuantity.String(), line.OrderUnit, line.WidthIn.String(), line.LengthIn.String(), line.LineWeightLbs.String(),
				line.LineInstructions, line.LineType, line.ProductionAreaID, line.LineStatus))
			for _, m := range line.ReservedMaterials {
				s.Materials = append(s.Materials, fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s", line.LineNumber, m.TagNumber, m.MillRef,
					m.Quantity.String(), m.Unit, m.Size, m.Location))
			}
		}
	}

	require.NoError(t, db.Model(&models.PickingList{}).Count(&s.Counts[0]).Error)
	require.NoError(t, db.Model(&models.PickingListLine{}).Count(&s.Counts[1]).Error)
	require.NoError(t, db.Model(&models.PickingListLineReservedMaterial{}).Count(&s.Counts[2]).Error)
	return s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
