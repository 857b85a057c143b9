package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Size     int // Width and height of the container drawing in pixels
	Padding  int
	FontSize int
	Title    string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Size:     800,
		Padding:  30,
		FontSize: 14,
	}
}

// supersample is the render scale before downsampling.
const supersample = 2

var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorContainer = color.RGBA{245, 240, 230, 255}
	colorBorder    = color.RGBA{100, 100, 100, 255}
	colorOutline   = color.RGBA{30, 30, 30, 255}
	colorText      = color.RGBA{51, 51, 51, 255}
)

// ExportPNG renders the run to a PNG file.
func ExportPNG(path string, run model.Run, opts PNGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PNG file: %w", err)
	}
	if err := RenderPNG(run, f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderPNG renders the container and its squares as PNG to w.
// The layout is drawn at twice the size and downsampled for smoother edges.
func RenderPNG(run model.Run, w io.Writer, opts PNGOptions) error {
	if err := run.Config.Validate(); err != nil {
		return fmt.Errorf("cannot render run: %w", err)
	}
	if opts.Size <= 0 {
		return fmt.Errorf("invalid image size %d", opts.Size)
	}

	large, err := renderImage(run, opts, supersample)
	if err != nil {
		return err
	}

	b := large.Bounds()
	final := image.NewRGBA(image.Rect(0, 0, b.Dx()/supersample, b.Dy()/supersample))
	draw.CatmullRom.Scale(final, final.Bounds(), large, b, draw.Over, nil)

	return png.Encode(w, final)
}

// imageSize returns the output dimensions for the options.
func imageSize(opts PNGOptions) (width, height int) {
	width = opts.Size + 2*opts.Padding
	height = width + titleSpace(opts)
	return width, height
}

func titleSpace(opts PNGOptions) int {
	return opts.FontSize * 2
}

// renderImage draws the layout at the given scale.
func renderImage(run model.Run, opts PNGOptions, scale int) (*image.RGBA, error) {
	width, height := imageSize(opts)
	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	container := run.Container()
	px := float64(opts.Size*scale) / container.Side
	left := float64(opts.Padding * scale)
	top := float64((opts.Padding + titleSpace(opts)) * scale)
	side := float64(opts.Size * scale)
	line := float64(scale)

	toPixels := func(p model.Point2D) (float32, float32) {
		return float32(left + p.X*px), float32(top + (container.Side-p.Y)*px)
	}

	r := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())

	frame := model.Outline{{X: left - 2*line, Y: top - 2*line}, {X: left + side + 2*line, Y: top - 2*line},
		{X: left + side + 2*line, Y: top + side + 2*line}, {X: left - 2*line, Y: top + side + 2*line}}
	fillPixelPolygons(r, img, []model.Outline{frame}, colorBorder)
	inner := model.Outline{{X: left, Y: top}, {X: left + side, Y: top}, {X: left + side, Y: top + side}, {X: left, Y: top + side}}
	fillPixelPolygons(r, img, []model.Outline{inner}, colorContainer)

	// Each square is filled dark, then its inset in the palette color,
	// which leaves an outline of width line.
	var outlines []model.Outline
	byColor := make(map[squareColor][]model.Outline)
	var order []squareColor
	for _, sq := range run.Squares {
		var o model.Outline
		for _, v := range geometry.SquareVertices(sq) {
			x, y := toPixels(v)
			o = append(o, model.Point2D{X: float64(x), Y: float64(y)})
		}
		outlines = append(outlines, o)

		col := colorFor(sq.Rotation)
		if _, ok := byColor[col]; !ok {
			order = append(order, col)
		}
		byColor[col] = append(byColor[col], inset(o, line))
	}
	fillPixelPolygons(r, img, outlines, colorOutline)
	for _, col := range order {
		fillPixelPolygons(r, img, byColor[col], color.RGBA{uint8(col.R), uint8(col.G), uint8(col.B), 255})
	}

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s: %d squares, %.2f%% density", run.Name, run.Count(), run.Density())
	}
	if err := drawText(img, float64(opts.FontSize*scale), int(left), int(top)-opts.FontSize*scale/2, title); err != nil {
		return nil, err
	}

	return img, nil
}

// fillPixelPolygons rasterizes closed polygons given in pixel coordinates.
func fillPixelPolygons(r *vector.Rasterizer, img *image.RGBA, polys []model.Outline, c color.Color) {
	if len(polys) == 0 {
		return
	}
	b := img.Bounds()
	r.Reset(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		r.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, p := range poly[1:] {
			r.LineTo(float32(p.X), float32(p.Y))
		}
		r.ClosePath()
	}
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}

// inset shrinks a square outline toward its centroid by d pixels per side.
func inset(o model.Outline, d float64) model.Outline {
	c := o.Centroid()
	out := make(model.Outline, len(o))
	for i, p := range o {
		v := p.Sub(c)
		// Corners of a square sit sqrt(2) half-sides from the center.
		n := v.Length()
		if n <= d*math.Sqrt2 {
			out[i] = c
			continue
		}
		out[i] = c.Add(v.Scale((n - d*math.Sqrt2) / n))
	}
	return out
}

// drawText draws text with its baseline at (x, y) using Go Regular.
func drawText(img *image.RGBA, size float64, x, y int, text string) error {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorText),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
	return nil
}
