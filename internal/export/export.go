// Package export writes records into an Excel workbook.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
)

const (
	// ContentType is the MIME type of xlsx files.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// FileName is the name offered to the browser for the download.
	FileName = "data.xlsx"
	// SheetName is the name of the only sheet in the workbook.
	SheetName = "Sheet1"
)

// Workbook returns an xlsx file with one sheet: the header row of the variant followed by one row
// per record.
func Workbook(variant model.Variant, records []model.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet writer: %w", err)
	}
	if err := sw.SetRow("A1", cells(variant.Header())); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, record := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := cells(record.Row(variant))
		// The id stays numeric like in the listing.
		row[0] = record.Id
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI embeds the workbook into a link target that downloads it without another request.
func DataURI(workbook []byte) string {
	return "data:" + ContentType + ";base64," + base64.StdEncoding.EncodeToString(workbook)
}

func cells(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
