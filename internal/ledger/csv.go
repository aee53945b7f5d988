package ledger

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"go-inventory-ledger/internal/model"
)

// utf8BOM lets spreadsheet programs detect the encoding of Japanese labels.
const utf8BOM = "\ufeff"

type csvLedger struct {
	path string
}

func (l *csvLedger) Path() string { return l.path }

func (l *csvLedger) Load(ctx context.Context) ([]model.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := readCSV(f)
	if err != nil {
		return nil, err
	}
	return decodeTable(table, loadColumns)
}

func (l *csvLedger) Save(ctx context.Context, records []model.InventoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(l.path, func(w io.Writer) error {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(model.LedgerColumns); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write(r.Values()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}
