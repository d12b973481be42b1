// Package mirror copies new records into a shared spreadsheet worksheet.
package mirror

import (
	"context"
	"fmt"
	"slices"
)

// Sheet is a worksheet of a spreadsheet service.
type Sheet interface {
	// Values returns all non-empty rows of the worksheet.
	Values(ctx context.Context) ([][]string, error)
	// AppendRow appends a row after the last non-empty row.
	AppendRow(ctx context.Context, row []string) error
}

// Result tells what AppendIfNew did with the candidate row.
type Result int

const (
	// Appended means the row was written to the worksheet.
	Appended Result = iota
	// Duplicate means the row equals the last row of the worksheet and was skipped.
	Duplicate
	// Skipped means the mirror is disabled.
	Skipped
)

func (r Result) String() string {
	switch r {
	case Appended:
		return "appended"
	case Duplicate:
		return "duplicate"
	}
	return "skipped"
}

// Mirror is the interface of the record mirror as seen by the form controller.
type Mirror interface {
	AppendIfNew(ctx context.Context, row []string) (Result, error)
}

// Worksheet mirrors rows into a Sheet. It writes the header row into an empty worksheet and
// suppresses a row that equals the last row already present. Arbitrary older duplicates are not
// detected.
type Worksheet struct {
	sheet  Sheet
	header []string
}

// New returns a Worksheet that writes to sheet and uses header as the first row.
func New(sheet Sheet, header []string) *Worksheet {
	return &Worksheet{sheet: sheet, header: header}
}

// AppendIfNew appends row unless it equals the last row of the worksheet.
func (w *Worksheet) AppendIfNew(ctx context.Context, row []string) (Result, error) {
	existing, err := w.sheet.Values(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(existing) == 0 || len(trim(existing[0])) == 0 {
		if err := w.sheet.AppendRow(ctx, w.header); err != nil {
			return 0, fmt.Errorf("failed to write header row: %w", err)
		}
		existing = [][]string{w.header}
	}
	if sameRow(existing[len(existing)-1], row) {
		return Duplicate, nil
	}
	if err := w.sheet.AppendRow(ctx, row); err != nil {
		return 0, fmt.Errorf("failed to append row: %w", err)
	}
	return Appended, nil
}

// sameRow compares two rows cell by cell. Trailing empty cells are ignored because spreadsheet
// services do not return them.
func sameRow(a, b []string) bool {
	return slices.Equal(trim(a), trim(b))
}

func trim(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}

// Disabled is a Mirror that does nothing.
type Disabled struct{}

// AppendIfNew always reports Skipped.
func (Disabled) AppendIfNew(context.Context, []string) (Result, error) {
	return Skipped, nil
}
