package importer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

func writeSquarePolyline(t *testing.T, d *drawing.Drawing, center model.Point2D, rot, scale float64) {
	t.Helper()
	var verts [][]float64
	for _, p := range geometry.Vertices(center, rot) {
		verts = append(verts, []float64{p.X * scale, p.Y * scale})
	}
	if _, err := d.LwPolyline(true, verts...); err != nil {
		t.Fatalf("failed to add polyline: %v", err)
	}
}

func saveDrawing(t *testing.T, d *drawing.Drawing) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}
	return path
}

func TestImportDXF_PolylinesAndContainer(t *testing.T) {
	d := dxf.NewDrawing()
	if _, err := d.LwPolyline(true, []float64{0, 0}, []float64{10, 0}, []float64{10, 10}, []float64{0, 10}); err != nil {
		t.Fatalf("failed to add container: %v", err)
	}
	writeSquarePolyline(t, d, model.Point2D{X: 2, Y: 2}, 0, 1)
	writeSquarePolyline(t, d, model.Point2D{X: 5, Y: 5}, math.Pi/4, 1)

	result := ImportDXF(saveDrawing(t, d), 1)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if math.Abs(result.ContainerSide-10) > 1e-4 {
		t.Errorf("expected container side 10, got %f", result.ContainerSide)
	}
	if len(result.Squares) != 2 {
		t.Fatalf("expected 2 squares, got %d", len(result.Squares))
	}

	first := result.Squares[0]
	if math.Abs(first.X-2) > 1e-4 || math.Abs(first.Y-2) > 1e-4 || rotationGap(first.Rotation, 0) > 1e-4 {
		t.Errorf("unexpected first square %+v", first)
	}
	second := result.Squares[1]
	if math.Abs(second.X-5) > 1e-4 || math.Abs(second.Y-5) > 1e-4 {
		t.Errorf("unexpected second center %+v", second)
	}
	if rotationGap(second.Rotation, math.Pi/4) > 1e-4 {
		t.Errorf("expected rotation pi/4, got %f", second.Rotation)
	}
}

func TestImportDXF_ScaledUnits(t *testing.T) {
	d := dxf.NewDrawing()
	writeSquarePolyline(t, d, model.Point2D{X: 3, Y: 4}, 0.3, 50)

	result := ImportDXF(saveDrawing(t, d), 50)

	if len(result.Squares) != 1 {
		t.Fatalf("expected 1 square, got %d (warnings %v)", len(result.Squares), result.Warnings)
	}
	sq := result.Squares[0]
	if math.Abs(sq.X-3) > 1e-4 || math.Abs(sq.Y-4) > 1e-4 || rotationGap(sq.Rotation, 0.3) > 1e-4 {
		t.Errorf("unexpected square %+v", sq)
	}
}

func TestImportDXF_ChainedLines(t *testing.T) {
	d := dxf.NewDrawing()
	corners := geometry.Vertices(model.Point2D{X: 7, Y: 7}, 0.2)
	// Out of order and alternately reversed.
	order := [][2]int{{2, 3}, {1, 0}, {3, 0}, {1, 2}}
	for _, e := range order {
		a, b := corners[e[0]], corners[e[1]]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}

	result := ImportDXF(saveDrawing(t, d), 0)

	if len(result.Squares) != 1 {
		t.Fatalf("expected 1 square, got %d (warnings %v)", len(result.Squares), result.Warnings)
	}
	sq := result.Squares[0]
	if math.Abs(sq.X-7) > 1e-4 || math.Abs(sq.Y-7) > 1e-4 {
		t.Errorf("unexpected center %+v", sq)
	}
	if rotationGap(sq.Rotation, 0.2) > 1e-4 {
		t.Errorf("expected rotation 0.2, got %f", sq.Rotation)
	}
}

func TestImportDXF_NonSquareShapesSkipped(t *testing.T) {
	d := dxf.NewDrawing()
	if _, err := d.LwPolyline(true, []float64{0, 0}, []float64{2, 0}, []float64{2, 1}, []float64{0, 1}); err != nil {
		t.Fatalf("failed to add rectangle: %v", err)
	}
	if _, err := d.LwPolyline(true, []float64{5, 5}, []float64{7, 5}, []float64{7, 7}, []float64{5, 7}); err != nil {
		t.Fatalf("failed to add square: %v", err)
	}
	if _, err := d.Circle(3, 3, 0, 1); err != nil {
		t.Fatalf("failed to add circle: %v", err)
	}

	result := ImportDXF(saveDrawing(t, d), 1)

	if len(result.Squares) != 0 {
		t.Errorf("expected no squares, got %d", len(result.Squares))
	}
	if result.ContainerSide != 0 {
		t.Errorf("expected no container off the origin, got %f", result.ContainerSide)
	}
	if len(result.Warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", result.Warnings)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/path/file.dxf", 1)

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestSquareShape(t *testing.T) {
	side, rot, ok := squareShape(geometry.Vertices(model.Point2D{X: 1, Y: 1}, 1.2))
	if !ok {
		t.Fatal("expected a square")
	}
	if math.Abs(side-1) > 1e-12 {
		t.Errorf("expected side 1, got %f", side)
	}
	if math.Abs(rot-1.2) > 1e-9 {
		t.Errorf("unexpected rotation %f", rot)
	}

	rect := model.Outline{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 1}}
	if _, _, ok := squareShape(rect); ok {
		t.Error("expected rectangle to be rejected")
	}

	rhombus := model.Outline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1.5, Y: 0.866}, {X: 0.5, Y: 0.866}}
	if _, _, ok := squareShape(rhombus); ok {
		t.Error("expected rhombus to be rejected")
	}
}

func TestChainSegments_OpenChainDropped(t *testing.T) {
	segs := []segment{
		{start: model.Point2D{X: 0, Y: 0}, end: model.Point2D{X: 1, Y: 0}},
		{start: model.Point2D{X: 1, Y: 0}, end: model.Point2D{X: 1, Y: 1}},
	}
	if got := chainSegments(segs, chainTolerance); len(got) != 0 {
		t.Errorf("expected no outlines, got %d", len(got))
	}
}

// rotationGap is the angular distance between two square rotations.
func rotationGap(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), math.Pi/2)
	return math.Min(d, math.Pi/2-d)
}
