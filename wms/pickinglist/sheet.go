package pickinglist

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Key yang di sheet biasanya ditulis tanpa titik dua di satu cell sendiri
var sheetBlockKeys = map[string]bool{
	keyOrderQty:          true,
	keyReservedMaterials: true,
	keyLineInstructions:  true,
}

// ParseRows menerima picking list dalam bentuk baris spreadsheet: key di cell pertama,
// value di cell berikutnya. Baris satu cell diperlakukan sebagai sentinel atau teks bebas.
func ParseRows(rows [][]string) (*ImportDocument, error) {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowToLine(row))
	}

	empty := true
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil, &MalformedDocumentError{Reason: "sheet has no rows"}
	}
	return ParseLines(lines)
}

// ParseWorkbook membaca sheet pertama dari file xlsx
func ParseWorkbook(r io.Reader) (*ImportDocument, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &MalformedDocumentError{Reason: "cannot open workbook: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedDocumentError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheets[0])
	}
	return ParseRows(rows)
}

func ParseCSV(r io.Reader) (*ImportDocument, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &MalformedDocumentError{Reason: "cannot read csv: " + err.Error()}
	}
	return ParseRows(rows)
}

func rowToLine(row []string) string {
	cells := make([]string, 0, len(row))
	for i, cell := range row {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\uFEFF")
		}
		cells = append(cells, strings.TrimSpace(cell))
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	if len(cells) == 0 {
		return ""
	}

	head := cells[0]
	rest := compact(cells[1:])

	if head == "" {
		return strings.Join(rest, " ")
	}

	tok := tokenize(head)
	if tok.key == "" {
		// teks bebas yang terpecah ke beberapa cell
		return strings.Join(append([]string{head}, rest...), " ")
	}

	if len(rest) == 0 {
		if !tok.hasColon && sheetBlockKeys[tok.key] {
			return head + ":"
		}
		return head
	}
	if !tok.hasColon {
		head += ":"
	}
	return head + " " + strings.Join(rest, " ")
}

func compact(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
