package model

import (
	"math"
	"strconv"
	"strings"
)

// UnsetLabel replaces a blank category or location.
const UnsetLabel = "未設定"

// DefaultThreshold is assigned to records whose ledger row has no usable threshold.
const DefaultThreshold = 5

// Ledger column names
const (
	ColID           = "id"
	ColName         = "name"
	ColCategory     = "category"
	ColQuantity     = "quantity"
	ColLocation     = "location"
	ColThreshold    = "threshold"
	ColOrderPending = "order_pending"
)

// LedgerColumns is the serialization order of a ledger row.
var LedgerColumns = []string{ColID, ColName, ColCategory, ColQuantity, ColLocation, ColThreshold, ColOrderPending}

// InventoryRecord is one stocked item of the ledger.
type InventoryRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity"`
	Threshold    int    `json:"threshold"`
	OrderPending bool   `json:"order_pending"`
}

// Row is a raw ledger row keyed by column name.
type Row map[string]string

// NormalizeLabel trims s and maps an empty label to UnsetLabel.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnsetLabel
	}
	return s
}

// NormalizeID returns the text form used to compare ids. Spreadsheet exports
// sometimes turn integer ids into "101.0"; those collapse back to "101".
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return s
	}
	if strings.Trim(s[:dot], "0123456789") == "" && strings.Trim(s[dot+1:], "0") == "" {
		return s[:dot]
	}
	return s
}

// ParseCount parses a non-negative count the way spreadsheet cells come in:
// "7", " 7 ", "7.0". ok is false for blanks, text, fractions and negatives.
func ParseCount(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, i >= 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ParseFlag reads a boolean ledger cell. Anything unrecognised is false.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	}
	return false
}

// RecordFromRow builds a normalized record from a raw ledger row.
func RecordFromRow(row Row, defaultThreshold int) InventoryRecord {
	qty, ok := ParseCount(row[ColQuantity])
	if !ok {
		qty = 0
	}
	threshold, ok := ParseCount(row[ColThreshold])
	if !ok {
		threshold = defaultThreshold
	}
	return InventoryRecord{
		ID:           NormalizeID(row[ColID]),
		Name:         strings.TrimSpace(row[ColName]),
		Category:     NormalizeLabel(row[ColCategory]),
		Location:     NormalizeLabel(row[ColLocation]),
		Quantity:     qty,
		Threshold:    threshold,
		OrderPending: ParseFlag(row[ColOrderPending]),
	}
}

// Values returns the record's cells in LedgerColumns order.
func (r InventoryRecord) Values() []string {
	return []string{
		r.ID,
		r.Name,
		r.Category,
		strconv.Itoa(r.Quantity),
		r.Location,
		strconv.Itoa(r.Threshold),
		strconv.FormatBool(r.OrderPending),
	}
}
