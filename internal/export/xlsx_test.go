package export

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SquarePack/internal/importer"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.xlsx")

	if err := ExportXLSX(path, buildTestRun(), buildTestTrace()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetSquares, SheetSummary, SheetProgress}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d: expected %s, got %s", i, want[i], sheets[i])
		}
	}

	rows, err := f.GetRows(SheetSquares)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("expected header plus 4 squares, got %d rows", len(rows))
	}

	progress, err := f.GetRows(SheetProgress)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(progress) != 4 {
		t.Fatalf("expected header plus 3 ticks, got %d rows", len(progress))
	}
	if progress[2][4] != "3" {
		t.Errorf("expected 3 moves on tick 2, got %q", progress[2][4])
	}

	seed, err := f.GetCellValue(SheetSummary, "B4")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if seed != "42" {
		t.Errorf("expected seed 42, got %q", seed)
	}
}

func TestExportXLSX_NoTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.xlsx")

	if err := ExportXLSX(path, buildTestRun(), nil); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(SheetProgress); idx != -1 {
		t.Error("expected no progress sheet without a trace")
	}
}

func TestExportXLSX_ImportsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.xlsx")
	run := buildTestRun()

	if err := ExportXLSX(path, run, nil); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	result := importer.ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("import errors: %v", result.Errors)
	}
	if len(result.Squares) != len(run.Squares) {
		t.Fatalf("expected %d squares, got %d", len(run.Squares), len(result.Squares))
	}
	for i, want := range run.Squares {
		got := result.Squares[i]
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Rotation-want.Rotation) > 1e-9 {
			t.Errorf("square %d: expected %+v, got %+v", i, want, got)
		}
	}
}
