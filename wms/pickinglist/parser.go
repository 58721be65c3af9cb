package pickinglist

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// emptyPlaceholder di teks sumber berarti "sengaja dikosongkan"
const emptyPlaceholder = "—"

const (
	keyPickingListNo     = "PICKING_LIST_NO"
	keyPrintDate         = "PRINT_DATE"
	keyShipDate          = "SHIP_DATE"
	keyBuyer             = "BUYER"
	keySalesRep          = "SALES_REP"
	keyShipVia           = "SHIP_VIA"
	keySoldTo            = "SOLD_TO"
	keyShipTo            = "SHIP_TO"
	keyTotalWeightLbs    = "TOTAL_WEIGHT_LBS"
	keyOrderInstructions = "ORDER_INSTRUCTIONS"
	keyLines             = "LINES"
	keyLine              = "LINE"
	keyItemCode          = "ITEM_CODE"
	keyDescription       = "DESCRIPTION"
	keyOrderQty          = "ORDER_QTY"
	keyValue             = "VALUE"
	keyUnit              = "UNIT"
	keyWidthIn           = "WIDTH_IN"
	keyLengthIn          = "LENGTH_IN"
	keyLineWeightLbs     = "LINE_WEIGHT_LBS"
	keyReservedMaterials = "RESERVED_MATERIALS"
	keyTagNumber         = "TAG_NUMBER"
	keyMillRef           = "MILL_REF"
	keyQty               = "QTY"
	keySize              = "SIZE"
	keyLoc               = "LOC"
	keyLineInstructions  = "LINE_INSTRUCTIONS"
)

// Key yang menutup buffer LINE_INSTRUCTIONS dan mengembalikan cursor ke detail line.
// UNIT dan VALUE sengaja tidak termasuk karena terlalu umum untuk teks bebas.
var instructionExitKeys = map[string]bool{
	keyItemCode:      true,
	keyDescription:   true,
	keyOrderQty:      true,
	keyWidthIn:       true,
	keyLengthIn:      true,
	keyLineWeightLbs: true,
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

type section int

const (
	sectionHeader section = iota
	sectionOrderInstructions
	sectionLineCollection
)

// lineState adalah cursor di dalam satu LINE: block
type lineState int

const (
	lineDetails lineState = iota
	lineReservedMaterials
	lineInstructions
)

type token struct {
	text     string
	key      string
	value    string
	listItem bool
	hasColon bool
}

func (t token) isPair(key string) bool {
	return t.hasColon && t.key == key
}

type parser struct {
	doc      *ImportDocument
	section  section
	cursor   lineState
	line     *ImportLine
	material *ImportReservedMaterial
	buffer   []string
}

// Parse mengubah teks picking list menjadi ImportDocument.
// Field wajib yang hilang tidak membuat parse gagal; itu tugas Validator.
func Parse(text string) (*ImportDocument, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, &MalformedDocumentError{Reason: "document is empty"}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return ParseLines(strings.Split(text, "\n"))
}

// ParseLines menjalankan state machine atas baris yang sudah dipisah
func ParseLines(lines []string) (*ImportDocument, error) {
	p := &parser{doc: &ImportDocument{}}
	for _, raw := range lines {
		p.feed(raw)
	}
	p.flush()

	if len(p.doc.Lines) == 0 {
		return nil, &MalformedDocumentError{Reason: "no LINE: blocks found"}
	}
	return p.doc, nil
}

func (p *parser) feed(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || isSeparator(trimmed) {
		return
	}
	raw = strings.TrimRight(raw, " \t\r")
	tok := tokenize(trimmed)

	// Section sentinel berlaku dari state mana pun
	if !tok.listItem {
		switch tok.key {
		case keyOrderInstructions:
			p.enterSection(sectionOrderInstructions)
			p.bufferValue(tok.value)
			return
		case keyLines:
			if tok.value == "" {
				p.enterSection(sectionLineCollection)
				return
			}
		}
	}

	if tok.isPair(keyLine) {
		p.startLine(tok.value)
		return
	}

	switch p.section {
	case sectionHeader:
		p.header(tok)
	case sectionOrderInstructions:
		p.buffer = append(p.buffer, raw)
	case sectionLineCollection:
		p.lineCollection(tok, raw)
	}
}

func (p *parser) enterSection(s section) {
	p.flush()
	p.section = s
	p.line = nil
	p.material = nil
	p.cursor = lineDetails
}

// startLine selalu membuka line baru, apa pun cursor sebelumnya
func (p *parser) startLine(value string) {
	p.flush()
	n, err := strconv.Atoi(strings.TrimSpace(value))
	line := &ImportLine{LineNumber: n, LineNumberValid: err == nil}
	p.doc.Lines = append(p.doc.Lines, line)

	p.section = sectionLineCollection
	p.line = line
	p.material = nil
	p.cursor = lineDetails
}

func (p *parser) enterLineState(s lineState) {
	p.flush()
	p.cursor = s
	p.material = nil
}

func (p *parser) header(tok token) {
	if !tok.hasColon {
		return
	}
	switch tok.key {
	case keyPickingListNo:
		p.doc.PickingListNumber = tok.value
	case keyPrintDate:
		p.doc.PrintDate = parseDateTime(tok.value)
	case keyShipDate:
		p.doc.ShipDate = parseDate(tok.value)
	case keyBuyer:
		p.doc.Buyer = tok.value
	case keySalesRep:
		p.doc.SalesRep = tok.value
	case keyShipVia:
		p.doc.ShipVia = tok.value
	case keySoldTo:
		p.doc.SoldTo = tok.value
	case keyShipTo:
		p.doc.ShipTo = tok.value
	case keyTotalWeightLbs:
		p.doc.TotalWeightLbs = parseNumeric(tok.value)
	}
}

func (p *parser) lineCollection(tok token, raw string) {
	if p.line == nil {
		// teks di antara LINES dan LINE: pertama diabaikan
		return
	}

	switch {
	case tok.isPair(keyReservedMaterials):
		p.enterLineState(lineReservedMaterials)
	case tok.isPair(keyLineInstructions):
		p.enterLineState(lineInstructions)
		p.bufferValue(tok.value)
	case p.cursor == lineInstructions && !(tok.hasColon && instructionExitKeys[tok.key]):
		p.buffer = append(p.buffer, raw)
	case tok.isPair(keyUnit):
		p.assignUnit(tok.value)
	case p.cursor == lineReservedMaterials && p.reservedMaterial(tok):
	default:
		p.lineDetail(tok)
	}
}

// assignUnit adalah satu-satunya tempat UNIT di-dispatch: di dalam RESERVED_MATERIALS
// nilainya milik material yang sedang dibangun, selain itu milik ORDER_QTY line.
func (p *parser) assignUnit(value string) {
	switch p.cursor {
	case lineReservedMaterials:
		if p.material != nil {
			p.material.Unit = value
		}
	default:
		p.line.OrderUnit = strings.ToUpper(value)
	}
}

// reservedMaterial mengembalikan true jika token dikonsumsi oleh reserved material
func (p *parser) reservedMaterial(tok token) bool {
	if tok.text == emptyPlaceholder {
		// "—" berarti line ini tidak punya reserved material
		return true
	}
	if !tok.hasColon {
		return false
	}

	if tok.key == keyTagNumber {
		p.material = &ImportReservedMaterial{TagNumber: tok.value}
		p.line.ReservedMaterials = append(p.line.ReservedMaterials, p.material)
		return true
	}

	switch tok.key {
	case keyMillRef, keySize, keyLoc, keyQty:
	default:
		return false
	}
	// field sebelum TAG_NUMBER pertama diabaikan
	if p.material == nil {
		return true
	}

	switch tok.key {
	case keyMillRef:
		p.material.MillRef = tok.value
	case keySize:
		p.material.Size = tok.value
	case keyLoc:
		p.material.Location = tok.value
	case keyQty:
		p.material.Quantity = parseNumeric(tok.value).Value
	}
	return true
}

func (p *parser) lineDetail(tok token) {
	if !tok.hasColon {
		return
	}

	var apply func()
	switch tok.key {
	case keyItemCode:
		apply = func() { p.line.ItemCode = tok.value }
	case keyDescription:
		apply = func() { p.line.Description = tok.value }
	case keyOrderQty:
		apply = func() {}
	case keyValue:
		apply = func() { p.line.OrderQty = parseNumeric(tok.value) }
	case keyWidthIn:
		apply = func() { p.line.WidthIn = parseNumeric(tok.value) }
	case keyLengthIn:
		apply = func() { p.line.LengthIn = parseNumeric(tok.value) }
	case keyLineWeightLbs:
		apply = func() { p.line.LineWeightLbs = parseNumeric(tok.value) }
	default:
		return
	}

	if p.cursor != lineDetails {
		p.enterLineState(lineDetails)
	}
	apply()
}

func (p *parser) bufferValue(value string) {
	if value != "" {
		p.buffer = append(p.buffer, value)
	}
}

// flush menulis buffer teks multi-baris ke field milik state saat ini
func (p *parser) flush() {
	if len(p.buffer) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(p.buffer, "\n"))
	if text == emptyPlaceholder {
		text = ""
	}

	switch {
	case p.section == sectionOrderInstructions:
		p.doc.OrderInstructions = text
	case p.section == sectionLineCollection && p.cursor == lineInstructions && p.line != nil:
		p.line.LineInstructions = text
	}
	p.buffer = p.buffer[:0]
}

func tokenize(trimmed string) token {
	tok := token{text: trimmed}
	body := trimmed
	if rest, ok := strings.CutPrefix(body, "-"); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
		tok.listItem = true
		body = strings.TrimSpace(rest)
	}

	name, value, found := strings.Cut(body, ":")
	if found {
		name = strings.TrimSpace(name)
		if isKeyName(name) {
			tok.key = name
			tok.value = strings.TrimSpace(value)
			tok.hasColon = true
		}
		return tok
	}
	if isKeyName(body) {
		tok.key = body
	}
	return tok
}

func isKeyName(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

func isSeparator(s string) bool {
	return s != "" && strings.Trim(s, "-") == ""
}

// parseNumeric memakai notasi titik desimal tetap, koma ribuan dibuang
func parseNumeric(raw string) NumericField {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return NumericField{Present: true}
	}
	return NumericField{Value: d, Present: true, Valid: true}
}

func parseDateTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func parseDate(raw string) *time.Time {
	t := parseDateTime(raw)
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
