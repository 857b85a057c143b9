package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSquares  = "Squares"
	SheetSummary  = "Summary"
	SheetProgress = "Progress"
)

// ExportXLSX writes a workbook with the squares of a run, a summary sheet
// and, when trace is non-nil, one progress row per recorded tick. The
// Squares sheet is first so importer.ImportExcel can read it back.
func ExportXLSX(path string, run model.Run, trace *engine.Trace) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetSquares); err != nil {
		return fmt.Errorf("failed to name squares sheet: %w", err)
	}
	rows := [][]interface{}{{"Index", "X", "Y", "Rotation", "Rotation (deg)"}}
	for i, sq := range run.Squares {
		rows = append(rows, []interface{}{i + 1, sq.X, sq.Y, sq.Rotation, sq.Rotation * 180 / math.Pi})
	}
	if err := writeSheet(f, SheetSquares, rows, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	cfg := run.Config
	summary := [][]interface{}{
		{"Field", "Value"},
		{"Run", run.Name},
		{"ID", run.ID},
		{"Seed", run.Seed},
		{"Container Area", cfg.ContainerArea},
		{"Container Side", run.Container().Side},
		{"Max Failures", cfg.MaxFailures},
		{"Attempts / Tick", cfg.AttemptsPerFrame},
		{"Rearrangements / Tick", cfg.RearrAttemptsPerFrame},
		{"Translation Step", cfg.TransStep},
		{"Rotation Step", cfg.RotStep},
		{"Squares Placed", run.Count()},
		{"Density (%)", run.Density()},
		{"Ticks", run.Ticks},
		{"Failure Streak", run.FailureCount},
		{"Terminated", run.Terminated},
	}
	if err := writeSheet(f, SheetSummary, summary, header); err != nil {
		return err
	}

	if trace != nil {
		if _, err := f.NewSheet(SheetProgress); err != nil {
			return fmt.Errorf("failed to add progress sheet: %w", err)
		}
		progress := [][]interface{}{{"Tick", "Count", "Failure Count", "Inserted", "Moved", "Density (%)"}}
		for _, r := range trace.Records {
			progress = append(progress, []interface{}{r.Tick, r.Count, r.FailureCount, r.Inserted, r.Moved, r.Density})
		}
		if err := writeSheet(f, SheetProgress, progress, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSheet writes rows starting at A1 and styles the first row.
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("failed to create cell reference: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}
