// Package export writes packed layouts to PDF, PNG, DXF and Excel files.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
)

// squareColor represents an RGB color for a placed square.
type squareColor struct {
	R, G, B int
}

// squareColors is indexed by rotation bucket so equally oriented squares
// share a color.
var squareColors = []squareColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorFor returns the palette entry for a rotation in [0, pi/2).
func colorFor(rotation float64) squareColor {
	idx := int(engine.NormalizeRotation(rotation) / (math.Pi / 2) * float64(len(squareColors)))
	if idx >= len(squareColors) {
		idx = len(squareColors) - 1
	}
	return squareColors[idx]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document for a run: a layout page drawing the
// container and every square, followed by a summary page with the run
// statistics, the configuration and a QR stamp that reproduces the run.
// trace may be nil.
func ExportPDF(path string, run model.Run, trace *engine.Trace) error {
	if err := run.Config.Validate(); err != nil {
		return fmt.Errorf("cannot export run: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, run)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, run, trace); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the container and its squares on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, run model.Run) {
	container := run.Container()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (container %.3f x %.3f)", run.Name, container.Side, container.Side)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Squares: %d | Density: %.2f%% | Ticks: %d | Seed: %d",
		run.Count(), run.Density(), run.Ticks, run.Seed)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - 5
	scale := math.Min(drawWidth, drawHeight) / container.Side
	canvas := container.Side * scale

	offsetX := marginLeft + (drawWidth-canvas)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(245, 240, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvas, canvas, "FD")

	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.2)
	for _, sq := range run.Squares {
		col := colorFor(sq.Rotation)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Polygon(pagePoints(geometry.SquareVertices(sq), container.Side, scale, offsetX, offsetY), "FD")
	}

	drawDimensionAnnotations(pdf, container, offsetX, offsetY, canvas)
}

// pagePoints maps container coordinates to page coordinates. The page y
// axis points down, so y is flipped.
func pagePoints(o model.Outline, side, scale, offsetX, offsetY float64) []fpdf.PointType {
	pts := make([]fpdf.PointType, len(o))
	for i, p := range o {
		pts[i] = fpdf.PointType{
			X: offsetX + p.X*scale,
			Y: offsetY + (side-p.Y)*scale,
		}
	}
	return pts
}

// drawDimensionAnnotations labels the container side below and left of the drawing.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, container model.Container, offsetX, offsetY, canvas float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	label := fmt.Sprintf("%.3f", container.Side)
	labelW := pdf.GetStringWidth(label)
	pdf.SetXY(offsetX+(canvas-labelW)/2, offsetY+canvas+1)
	pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")

	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvas/2)
	pdf.SetXY(offsetX-3-labelW/2, offsetY+canvas/2-2)
	pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the run statistics, the configuration, the
// progress summary and the reproducibility stamp.
func renderSummaryPage(pdf *fpdf.Fpdf, run model.Run, trace *engine.Trace) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	est := run.Estimate()
	status := "running"
	if run.Terminated {
		status = "terminated"
	}
	y = drawSection(pdf, y, "Result", []summaryItem{
		{"Run", fmt.Sprintf("%s (%s)", run.Name, run.ID)},
		{"Seed", fmt.Sprintf("%d", run.Seed)},
		{"Squares Placed", fmt.Sprintf("%d", run.Count())},
		{"Density", fmt.Sprintf("%.2f%%", run.Density())},
		{"Grid Count", fmt.Sprintf("%d (%.1f%% reached)", est.GridCount, est.GridRatio)},
		{"Ticks", fmt.Sprintf("%d", run.Ticks)},
		{"Failure Streak", fmt.Sprintf("%d", run.FailureCount)},
		{"Status", status},
	})

	cfg := run.Config
	y = drawSection(pdf, y+5, "Configuration", []summaryItem{
		{"Container Area", fmt.Sprintf("%.3f", cfg.ContainerArea)},
		{"Max Failures", fmt.Sprintf("%d", cfg.MaxFailures)},
		{"Attempts / Tick", fmt.Sprintf("%d", cfg.AttemptsPerFrame)},
		{"Rearrangements / Tick", fmt.Sprintf("%d", cfg.RearrAttemptsPerFrame)},
		{"Translation Step", fmt.Sprintf("%.3f", cfg.TransStep)},
		{"Rotation Step", fmt.Sprintf("%.3f rad", cfg.RotStep)},
	})

	if summary := engine.Summarize(trace); summary.Ticks > 0 {
		drawSection(pdf, y+5, "Progress", []summaryItem{
			{"Recorded Ticks", fmt.Sprintf("%d", summary.Ticks)},
			{"Insertions", fmt.Sprintf("%d", summary.TotalInserted)},
			{"Accepted Moves", fmt.Sprintf("%d", summary.TotalMoved)},
			{"Peak Failure Streak", fmt.Sprintf("%d", summary.PeakFailureStreak)},
			{"Last Insertion Tick", fmt.Sprintf("%d", summary.LastInsertTick)},
		})
	}

	stampX := pageWidth - marginRight - stampWidth
	if err := renderStamp(pdf, stampX, marginTop+18, NewStampInfo(run)); err != nil {
		return fmt.Errorf("failed to render stamp: %w", err)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SquarePack - random sequential packing of unit squares", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

type summaryItem struct {
	label string
	value string
}

// drawSection writes a heading followed by label/value rows and returns
// the y position below the last row.
func drawSection(pdf *fpdf.Fpdf, y float64, heading string, items []summaryItem) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}
	return y
}
