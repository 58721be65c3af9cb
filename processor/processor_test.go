package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"metalflow-app/migration"
	"metalflow-app/models"
	"metalflow-app/wms/pickinglist"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const inboxUser = "inbox-bot"

type inbox struct {
	db      *gorm.DB
	dir     string
	routing DefaultRouting
}

func newInbox(t *testing.T) *inbox {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "inbox.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	branch := models.Branch{Code: "HOU", Name: "Houston", IsActive: true}
	require.NoError(t, db.Create(&branch).Error)
	sheet := models.ProductionArea{BranchID: branch.ID, Code: "SHEET", Name: "Sheet Picking", AreaType: models.AreaSheetPicking, IsActive: true}
	coil := models.ProductionArea{BranchID: branch.ID, Code: "COIL", Name: "Coil Picking", AreaType: models.AreaCoilPicking, IsActive: true}
	require.NoError(t, db.Create(&sheet).Error)
	require.NoError(t, db.Create(&coil).Error)
	require.NoError(t, db.Create(&[]models.Item{
		{ItemCode: "CR-1008-0036", Type: models.ItemTypeSheet, Uom: "PCS", IsActive: true},
		{ItemCode: "HR-A36-0250", Type: models.ItemTypeCoil, Uom: "LBS", IsActive: true},
	}).Error)
	require.NoError(t, db.Create(&models.UserBranch{UserID: inboxUser, BranchID: branch.ID, IsDefault: true}).Error)

	return &inbox{db: db, dir: t.TempDir(), routing: DefaultRouting{SheetAreaID: sheet.ID, CoilAreaID: coil.ID}}
}

func (in *inbox) drop(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(in.dir, name), []byte(content), 0o644))
}

func (in *inbox) run(t *testing.T) *Report {
	t.Helper()
	p := NewProcessor(in.db, pickinglist.NewService(in.db), in.dir, inboxUser, in.routing)
	report, err := p.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestDefaultRouting_ByLineType(t *testing.T) {
	doc, err := pickinglist.Parse("PICKING_LIST_NO: PL-1\nLINES\nLINE: 1\nORDER_QTY:\n- VALUE: 1\n- UNIT: PCS\nLINE: 2\nORDER_QTY:\n- VALUE: 1\n- UNIT: LBS\nLINE: x")
	require.NoError(t, err)

	require.Equal(t, map[int]uint{1: 10, 2: 20}, DefaultRouting{SheetAreaID: 10, CoilAreaID: 20}.For(doc))
	require.Equal(t, map[int]uint{2: 20}, DefaultRouting{CoilAreaID: 20}.For(doc))
}

func TestRun_MovesFilesByOutcome(t *testing.T) {
	in := newInbox(t)
	sample, err := os.ReadFile("../wms/pickinglist/testdata/pl-1001.txt")
	require.NoError(t, err)
	in.drop(t, "pl-1001.txt", string(sample))
	in.drop(t, "broken.txt", "PICKING_LIST_NO: PL-2\nLINES\nLINE: 1\nITEM_CODE: NOPE\nORDER_QTY:\n- VALUE: 1\n- UNIT: LBS\nLINE_WEIGHT_LBS: 1")
	in.drop(t, "notes.md", "ignored")

	report := in.run(t)
	require.Len(t, report.Processed, 1)
	require.Equal(t, "pl-1001.txt", report.Processed[0].File)
	require.Equal(t, "PL-1001", report.Processed[0].Summary.PickingListNumber)
	require.Len(t, report.Failed, 1)
	require.Equal(t, "item code NOPE not found in item master", report.Failed[0].Error)

	require.FileExists(t, filepath.Join(in.dir, processedFolder, "pl-1001.txt"))
	require.FileExists(t, filepath.Join(in.dir, failedFolder, "broken.txt"))
	require.FileExists(t, filepath.Join(in.dir, "notes.md"))
	require.NoFileExists(t, filepath.Join(in.dir, "pl-1001.txt"))

	var history models.PickingListImportHistory
	require.NoError(t, in.db.First(&history).Error)
	require.Equal(t, pickinglist.SourceInbox, history.Source)
	require.Equal(t, inboxUser, history.UserID)

	var logs []models.ImportFileLog
	require.NoError(t, in.db.Order("filename").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.Equal(t, models.FileFailed, logs[0].Status)
	require.Equal(t, models.FileProcessed, logs[1].Status)
	require.Equal(t, history.ID, logs[1].ImportID)
}

func TestRun_SkipsAlreadyProcessedFile(t *testing.T) {
	in := newInbox(t)
	sample, err := os.ReadFile("../wms/pickinglist/testdata/pl-1001.txt")
	require.NoError(t, err)
	in.drop(t, "pl-1001.txt", string(sample))
	path := filepath.Join(in.dir, "pl-1001.txt")
	stamp := time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	require.Len(t, in.run(t).Processed, 1)

	// file yang sama muncul lagi dengan waktu modifikasi yang sama
	require.NoError(t, os.Rename(filepath.Join(in.dir, processedFolder, "pl-1001.txt"), path))
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	report := in.run(t)
	require.Empty(t, report.Processed)
	require.Equal(t, []string{"pl-1001.txt"}, report.Skipped)
	require.FileExists(t, path)
}

func TestRun_RequiresUser(t *testing.T) {
	in := newInbox(t)
	_, err := NewProcessor(in.db, pickinglist.NewService(in.db), in.dir, "", in.routing).Run(context.Background())
	require.Error(t, err)
}
