package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdfcontext/internal/extract"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

const signalsSheet = "Signals"

// SignalsWorkbook renders the ranked signals as an XLSX workbook.
func SignalsWorkbook(sigs []signals.Signal) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(signalsSheet); index == -1 {
		if _, err := f.NewSheet(signalsSheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(signalsSheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Rank", "File", "Page", "Text", "Types", "Score", "Significance", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(signalsSheet, cell, h)
	}

	for i, s := range sigs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(signalsSheet, cell, v)
		}
		write(1, i+1)
		write(2, s.File)
		write(3, s.Page)
		write(4, s.Text)
		write(5, s.Types.String())
		write(6, s.Score)
		write(7, string(s.Significance()))
		write(8, string(s.Source))
	}

	_ = f.SetColWidth(signalsSheet, "A", "A", 6)  // rank
	_ = f.SetColWidth(signalsSheet, "B", "B", 28) // file
	_ = f.SetColWidth(signalsSheet, "C", "C", 6)  // page
	_ = f.SetColWidth(signalsSheet, "D", "D", 60) // text
	_ = f.SetColWidth(signalsSheet, "E", "E", 24) // types
	_ = f.SetColWidth(signalsSheet, "F", "H", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSXSink writes the signal workbook.
type XLSXSink struct {
	Path string
}

func (s XLSXSink) Name() string { return "xlsx" }

func (s XLSXSink) Write(ctx context.Context, b extract.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := SignalsWorkbook(b.Signals)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data)
}
