package pickinglist

import (
	"context"
	"strings"
	"testing"

	"metalflow-app/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func importText(t *testing.T, f *fixture, text string, routing map[int]uint) (*ImportSummary, error) {
	t.Helper()
	doc, err := Parse(text)
	require.NoError(t, err)
	return NewImporter(f.DB).Import(context.Background(), doc, f.Branch.ID, routing, ImportMeta{UserID: testUser})
}

func loadList(t *testing.T, f *fixture, number string) models.PickingList {
	t.Helper()
	var list models.PickingList
	require.NoError(t, f.DB.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_number") }).
		Preload("Lines.ReservedMaterials", func(db *gorm.DB) *gorm.DB { return db.Order("tag_number") }).
		Where("branch_id = ? AND picking_list_number = ?", f.Branch.ID, number).
		First(&list).Error)
	return list
}

func countRows(t *testing.T, f *fixture, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.DB.Model(model).Count(&n).Error)
	return n
}

func TestImport_CreatesListFromSample(t *testing.T) {
	f := newFixture(t)

	summary, err := importText(t, f, readSample(t), f.sampleRouting())
	require.NoError(t, err)
	require.True(t, summary.ListCreated)
	require.Equal(t, 2, summary.LinesCreated)
	require.Zero(t, summary.LinesUpdated)
	require.Equal(t, 2, summary.ReservedMaterials)
	require.Empty(t, summary.UnmatchedLines)
	require.NotZero(t, summary.ImportID)

	list := loadList(t, f, "PL-1001")
	require.Equal(t, summary.PickingListID, list.ID)
	require.Equal(t, models.PickingListQueued, list.Status)
	require.Equal(t, "John Miller", list.Buyer)
	require.Equal(t, "Deliver before noon.\nCall dock 3 on arrival.", list.OrderInstructions)
	requireDecimal(t, "12450.5", list.TotalWeightLbs)
	require.Len(t, list.Lines, 2)

	sheet := list.Lines[0]
	require.Equal(t, models.LineTypeSheet, sheet.LineType)
	require.Equal(t, models.LineOpen, sheet.LineStatus)
	require.Equal(t, f.SheetArea.ID, sheet.ProductionAreaID)
	require.NotNil(t, sheet.ItemID)
	require.Equal(t, []string{"T-5001", "T-5002"}, []string{sheet.ReservedMaterials[0].TagNumber, sheet.ReservedMaterials[1].TagNumber})
	require.Equal(t, "LBS", sheet.ReservedMaterials[0].Unit)

	coil := list.Lines[1]
	require.Equal(t, models.LineTypeCoil, coil.LineType)
	require.Equal(t, f.CoilArea.ID, coil.ProductionAreaID)
	require.Empty(t, coil.ReservedMaterials)

	var history models.PickingListImportHistory
	require.NoError(t, f.DB.First(&history, "id = ?", summary.ImportID).Error)
	require.Equal(t, testUser, history.UserID)
	require.Equal(t, SourceText, history.Source)
	require.True(t, history.ListCreated)
}

func TestImport_Idempotent(t *testing.T) {
	f := newFixture(t)
	sample := readSample(t)

	first, err := importText(t, f, sample, f.sampleRouting())
	require.NoError(t, err)
	once := takeSnapshot(t, f.DB, f.Branch.ID, "PL-1001")

	second, err := importText(t, f, sample, f.sampleRouting())
	require.NoError(t, err)
	twice := takeSnapshot(t, f.DB, f.Branch.ID, "PL-1001")

	require.Equal(t, once, twice)
	require.Equal(t, [3]int64{1, 2, 2}, twice.Counts)
	require.Equal(t, first.PickingListID, second.PickingListID)
	require.False(t, second.ListCreated)
	require.Zero(t, second.LinesCreated)
	require.Equal(t, 2, second.LinesUpdated)
	require.NotEqual(t, first.ImportID, second.ImportID)
	require.EqualValues(t, 2, countRows(t, f, &models.PickingListImportHistory{}))
}

func TestImport_ReplacesReservedMaterials(t *testing.T) {
	f := newFixture(t)
	sample := readSample(t)

	_, err := importText(t, f, sample, f.sampleRouting())
	require.NoError(t, err)

	// T-5002 hilang dari dokumen kedua, T-5003 baru
	revised := strings.Replace(sample, "- TAG_NUMBER: T-5002", "- TAG_NUMBER: T-5003", 1)
	_, err = importText(t, f, revised, f.sampleRouting())
	require.NoError(t, err)

	list := loadList(t, f, "PL-1001")
	var tags []string
	for _, m := range list.Lines[0].ReservedMaterials {
		tags = append(tags, m.TagNumber)
	}
	require.Equal(t, []string{"T-5001", "T-5003"}, tags)
	require.EqualValues(t, 2, countRows(t, f, &models.PickingListLineReservedMaterial{}))
}

func TestImport_PreservesIdentityAndStatus(t *testing.T) {
	f := newFixture(t)
	sample := readSample(t)

	_, err := importText(t, f, sample, f.sampleRouting())
	require.NoError(t, err)
	before := loadList(t, f, "PL-1001")

	require.NoError(t, f.DB.Model(&models.PickingList{}).Where("id = ?", before.ID).Update("status", models.PickingListPicking).Error)
	require.NoError(t, f.DB.Model(&models.PickingListLine{}).Where("id = ?", before.Lines[0].ID).Update("line_status", models.LinePicked).Error)

	revised := strings.Replace(sample, "BUYER: John Miller", "BUYER: Jane Doe", 1)
	routing := map[int]uint{1: f.CoilArea.ID, 2: f.CoilArea.ID}
	_, err = importText(t, f, revised, routing)
	require.NoError(t, err)

	after := loadList(t, f, "PL-1001")
	require.Equal(t, before.ID, after.ID)
	require.True(t, before.CreatedAt.Equal(after.CreatedAt))
	require.Equal(t, models.PickingListPicking, after.Status)
	require.Equal(t, "Jane Doe", after.Buyer)

	require.Equal(t, before.Lines[0].ID, after.Lines[0].ID)
	require.Equal(t, models.LinePicked, after.Lines[0].LineStatus)
	require.Equal(t, models.LineOpen, after.Lines[1].LineStatus)
	require.Equal(t, f.CoilArea.ID, after.Lines[0].ProductionAreaID)
}

func TestImport_MissingRoutingRollsBackEverything(t *testing.T) {
	f := newFixture(t)

	_, err := importText(t, f, generatedDocument("PL-10", 10, "a"), f.coilRouting(10))
	require.NoError(t, err)
	before := takeSnapshot(t, f.DB, f.Branch.ID, "PL-10")

	revised := strings.Replace(generatedDocument("PL-10", 10, "b"), "BUYER: Generated", "BUYER: Changed", 1)
	routing := f.coilRouting(10)
	delete(routing, 9)

	summary, err := importText(t, f, revised, routing)
	require.Nil(t, summary)
	var routingErr *RoutingNotAssignedError
	require.True(t, errors.As(err, &routingErr))
	require.Equal(t, 9, routingErr.LineNumber)

	require.Equal(t, before, takeSnapshot(t, f.DB, f.Branch.ID, "PL-10"))
	require.EqualValues(t, 1, countRows(t, f, &models.PickingListImportHistory{}))
}

func TestImport_MissingRoutingOnNewListPersistsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := importText(t, f, readSample(t), map[int]uint{1: f.SheetArea.ID})
	var routingErr *RoutingNotAssignedError
	require.True(t, errors.As(err, &routingErr))
	require.Equal(t, 2, routingErr.LineNumber)

	require.Zero(t, countRows(t, f, &models.PickingList{}))
	require.Zero(t, countRows(t, f, &models.PickingListLine{}))
	require.Zero(t, countRows(t, f, &models.PickingListLineReservedMaterial{}))
	require.Zero(t, countRows(t, f, &models.PickingListImportHistory{}))
}

func TestImport_RejectsInvalidRoutingArea(t *testing.T) {
	f := newFixture(t)

	for name, areaID := range map[string]uint{
		"inactive":     f.ClosedArea.ID,
		"other branch": f.ForeignArea.ID,
		"unknown":      9999,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := importText(t, f, readSample(t), map[int]uint{1: f.SheetArea.ID, 2: areaID})
			var areaErr *InvalidRoutingAreaError
			require.True(t, errors.As(err, &areaErr))
			require.Equal(t, 2, areaErr.LineNumber)
			require.Equal(t, areaID, areaErr.ProductionAreaID)
			require.Zero(t, countRows(t, f, &models.PickingList{}))
		})
	}
}

func TestImport_KeepsLinesMissingFromDocument(t *testing.T) {
	f := newFixture(t)

	_, err := importText(t, f, generatedDocument("PL-20", 10, "a"), f.coilRouting(10))
	require.NoError(t, err)

	summary, err := importText(t, f, generatedDocument("PL-20", 8, "a"), f.coilRouting(8))
	require.NoError(t, err)
	require.Equal(t, []int{9, 10}, summary.UnmatchedLines)
	require.Equal(t, 8, summary.LinesUpdated)
	require.EqualValues(t, 10, countRows(t, f, &models.PickingListLine{}))
}

func TestImport_ResolvesItemsInsideTransaction(t *testing.T) {
	f := newFixture(t)
	text := "PICKING_LIST_NO: PL-30\nLINES\n" + minimalLine("1", retiredItemCode, UnitLBS)

	_, err := importText(t, f, text, map[int]uint{1: f.CoilArea.ID})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, []string{"item code " + retiredItemCode + " not found in item master"}, validationErr.Errors)
	require.Zero(t, countRows(t, f, &models.PickingList{}))
}

func TestImport_IgnoresCancellation(t *testing.T) {
	f := newFixture(t)
	doc, err := Parse(readSample(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewImporter(f.DB).Import(ctx, doc, f.Branch.ID, f.sampleRouting(), ImportMeta{UserID: testUser, Source: SourceCommand})
	require.NoError(t, err)
	require.True(t, summary.ListCreated)
}
