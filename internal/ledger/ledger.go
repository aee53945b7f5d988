// Package ledger reads and writes the tabular inventory ledger. The ledger is
// always rewritten as a full snapshot, one row per record in store order.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-inventory-ledger/internal/model"
)

var (
	ErrMissingColumns    = errors.New("missing required columns")
	ErrUnsupportedFormat = errors.New("unsupported ledger format")
)

// Gateway loads and saves the ledger file.
type Gateway interface {
	Load(ctx context.Context) ([]model.Row, error)
	Save(ctx context.Context, records []model.InventoryRecord) error
	Path() string
}

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// RequiredColumns must all be present in an imported file.
var RequiredColumns = model.LedgerColumns

// LegacyColumns is the narrower column set accepted by older import files.
var LegacyColumns = []string{model.ColID, model.ColName, model.ColCategory, model.ColQuantity}

// loadColumns must be present in the ledger itself.
var loadColumns = []string{model.ColID, model.ColName}

// MissingColumnsError names every required column absent from a header row.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// FormatFromName picks the format from a file extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// Open returns the gateway for the ledger at path. The file itself is only
// touched by Load and Save.
func Open(path string) (Gateway, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	if format == FormatCSV {
		return &csvLedger{path: path}, nil
	}
	return &xlsxLedger{path: path}, nil
}

// ReadImport parses an uploaded table and checks its header against required.
func ReadImport(r io.Reader, format Format, required []string) ([]model.Row, error) {
	var (
		table [][]string
		err   error
	)
	switch format {
	case FormatCSV:
		table, err = readCSV(r)
	case FormatXLSX:
		table, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return decodeTable(table, required)
}

// decodeTable turns a header row plus data rows into column-keyed rows.
// Fully blank rows are skipped; short rows read as blank cells.
func decodeTable(table [][]string, required []string) ([]model.Row, error) {
	if len(table) == 0 {
		return nil, &MissingColumnsError{Missing: append([]string(nil), required...)}
	}
	headers := make([]string, len(table[0]))
	present := make(map[string]bool, len(headers))
	for i, h := range table[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		headers[i] = h
		present[h] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	rows := make([]model.Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := make(model.Row, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" || i >= len(cells) {
				continue
			}
			row[h] = cells[i]
			if strings.TrimSpace(cells[i]) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// writeAtomic writes to a temp file next to path and renames it into place,
// so a failed save never leaves a truncated ledger.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
