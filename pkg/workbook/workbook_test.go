package workbook

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCreateAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.xlsx")

	wb, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := wb.SetCell(SheetObjects, 2, 1, "a"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := wb.SetCell(SheetObjects, 2, 2, "n0"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := wb.SetCell(SheetRelations, 2, 4, "grp"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := wb.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer got.Close()

	if v, err := got.Cell(SheetObjects, 2, 2); err != nil || v != "n0" {
		t.Errorf("Cell = %q, %v; want n0", v, err)
	}
	// Missing cells read as empty.
	if v, err := got.Cell(SheetObjects, 9, 9); err != nil || v != "" {
		t.Errorf("missing Cell = %q, %v; want empty", v, err)
	}

	rows, err := got.Rows(SheetObjects)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (header + data)", len(rows))
	}
	if rows[0][0] != ObjectsHeader {
		t.Errorf("header row = %q", rows[0][0])
	}
	if rows[1][0] != "a" || rows[1][1] != "n0" {
		t.Errorf("data row = %v", rows[1])
	}

	relRows, err := got.Rows(SheetRelations)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(relRows[0]) != len(RelationsHeaders) {
		t.Errorf("relations header = %v", relRows[0])
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xlsx"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open = %v, want ErrNotFound", err)
	}
}

func TestWithWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoped.xlsx")
	wb, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wb.Close()

	err = WithWorkbook(path, true, func(w *Workbook) error {
		return w.SetCell(SheetObjects, 2, 1, "persisted")
	})
	if err != nil {
		t.Fatalf("WithWorkbook: %v", err)
	}

	err = WithWorkbook(path, false, func(w *Workbook) error {
		v, err := w.Cell(SheetObjects, 2, 1)
		if err != nil {
			return err
		}
		if v != "persisted" {
			t.Errorf("Cell = %q, want persisted", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithWorkbook (read): %v", err)
	}
}
