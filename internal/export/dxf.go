package export

import (
	"fmt"

	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// DXF layer names.
const (
	LayerContainer = "CONTAINER"
	LayerSquares   = "SQUARES"
)

// ExportDXF writes the container and one closed LWPOLYLINE per square to a
// DXF file. Coordinates are multiplied by unitSize so one square side
// measures unitSize drawing units; unitSize <= 0 means 1.
func ExportDXF(path string, run model.Run, unitSize float64) error {
	if err := run.Config.Validate(); err != nil {
		return fmt.Errorf("cannot export run: %w", err)
	}
	if unitSize <= 0 {
		unitSize = 1
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerContainer, color.Blue, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add container layer: %w", err)
	}
	side := run.Container().Side * unitSize
	if _, err := d.LwPolyline(true,
		[]float64{0, 0}, []float64{side, 0}, []float64{side, side}, []float64{0, side}); err != nil {
		return fmt.Errorf("failed to draw container: %w", err)
	}

	if _, err := d.AddLayer(LayerSquares, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add squares layer: %w", err)
	}
	for i, sq := range run.Squares {
		verts := make([][]float64, 0, 4)
		for _, p := range geometry.SquareVertices(sq) {
			verts = append(verts, []float64{p.X * unitSize, p.Y * unitSize})
		}
		if _, err := d.LwPolyline(true, verts...); err != nil {
			return fmt.Errorf("failed to draw square %d: %w", i, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF file: %w", err)
	}
	return nil
}
