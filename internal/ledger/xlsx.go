package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go-inventory-ledger/internal/model"

	"github.com/xuri/excelize/v2"
)

type xlsxLedger struct {
	path string
}

func (l *xlsxLedger) Path() string { return l.path }

func (l *xlsxLedger) Load(ctx context.Context) ([]model.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := firstSheet(f)
	if err != nil {
		return nil, err
	}
	return decodeTable(table, loadColumns)
}

func (l *xlsxLedger) Save(ctx context.Context, records []model.InventoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(model.LedgerColumns))
	for i, col := range model.LedgerColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		// ids stay text cells so mixed numeric/text ids compare as text
		row := []interface{}{r.ID, r.Name, r.Category, r.Quantity, r.Location, r.Threshold, r.OrderPending}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d (%s): %w", i+2, r.ID, err)
		}
	}

	return writeAtomic(l.path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return firstSheet(f)
}

func firstSheet(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
