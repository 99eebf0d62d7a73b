// Package workbook wraps the xlsx workbook used as the bulk-editing
// surface for graph documents: two fixed sheets, cell access by
// (row, column), and an explicit open -> operate -> save -> close
// lifecycle so a session always releases the file.
package workbook

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Extension is the file extension of editing workbooks.
const Extension = ".xlsx"

// Sheet names of the editing surface.
const (
	SheetObjects   = "Objects_and_Groups"
	SheetRelations = "Relations"
)

// Instructional header texts. The objects sheet's header lives in cell
// (1,1); the relations sheet has a fixed four-column header row.
var (
	ObjectsHeader    = "Objects and Groups: indent names one column per nesting level; leave the id column untouched"
	RelationsHeaders = []string{"Node1", "Node2", "Label", "Group"}
)

var (
	// ErrNotFound is returned by Open when the workbook does not exist.
	ErrNotFound = errors.New("workbook not found")
)

// Workbook is an open xlsx file. It is not safe for concurrent use; the
// editing surface is single-writer by convention.
type Workbook struct {
	file *excelize.File
	path string
}

// Create builds a fresh editing workbook at path with both sheets and
// their header rows, replacing any existing file.
func Create(path string) (*Workbook, error) {
	f := excelize.NewFile()

	if _, err := f.NewSheet(SheetObjects); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetRelations); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	// Drop the implicit default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	w := &Workbook{file: f, path: path}
	if err := w.SetCell(SheetObjects, 1, 1, ObjectsHeader); err != nil {
		return nil, err
	}
	for col, h := range RelationsHeaders {
		if err := w.SetCell(SheetRelations, 1, col+1, h); err != nil {
			return nil, err
		}
	}
	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}

// Open loads an existing workbook from path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f, path: path}, nil
}

// Path returns the workbook's file path.
func (w *Workbook) Path() string { return w.path }

// SetCell writes a string value at the 1-based (row, col) position.
func (w *Workbook) SetCell(sheet string, row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	if err := w.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Cell reads the string value at the 1-based (row, col) position.
// Missing cells read as the empty string.
func (w *Workbook) Cell(sheet string, row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	value, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("get cell %s!%s: %w", sheet, cell, err)
	}
	return value, nil
}

// Rows returns the sheet's populated rows; trailing empty cells are
// trimmed per row, matching how spreadsheet applications save sparse
// sheets.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// Save flushes the workbook to its path.
func (w *Workbook) Save() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Close releases the underlying file without saving.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// WithWorkbook opens the workbook at path, runs op, and guarantees the
// handle is closed on every exit path. When save is set, a successful op
// is flushed before closing.
func WithWorkbook(path string, save bool, op func(*Workbook) error) (err error) {
	w, err := Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = op(w); err != nil {
		return err
	}
	if save {
		err = w.Save()
	}
	return err
}
