package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SquarePack/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// StampInfo holds the data encoded into a run's reproducibility stamp.
// Seed and Config replay the run; a run that did not terminate is replayed
// for Ticks ticks. The remaining fields let a reader check the replay.
type StampInfo struct {
	RunID   string       `json:"id"`
	Name    string       `json:"name"`
	Seed    int64        `json:"seed"`
	Config  model.Config `json:"config"`
	Count   int          `json:"count"`
	Ticks   int          `json:"ticks"`
	Density float64      `json:"density"`

	Terminated bool `json:"terminated"`
}

// Stamp layout constants.
const (
	stampWidth   = 70.0 // mm
	stampHeight  = 90.0 // mm
	stampQRSize  = 60.0 // mm
	stampPadding = 5.0  // mm
)

// NewStampInfo collects the stamp data of a run.
func NewStampInfo(run model.Run) StampInfo {
	return StampInfo{
		RunID:   run.ID,
		Name:    run.Name,
		Seed:    run.Seed,
		Config:  run.Config,
		Count:   run.Count(),
		Ticks:   run.Ticks,
		Density: run.Density(),

		Terminated: run.Terminated,
	}
}

// ParseStamp decodes the JSON payload scanned from a stamp.
func ParseStamp(payload []byte) (StampInfo, error) {
	var info StampInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return StampInfo{}, fmt.Errorf("failed to parse stamp: %w", err)
	}
	if err := info.Config.Validate(); err != nil {
		return StampInfo{}, fmt.Errorf("stamp carries an invalid config: %w", err)
	}
	return info, nil
}

// StampPNG encodes the stamp as a QR code PNG of size x size pixels.
func StampPNG(info StampInfo, size int) ([]byte, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stamp: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// renderStamp draws the stamp box with its QR code and caption at the given position.
func renderStamp(pdf *fpdf.Fpdf, x, y float64, info StampInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, stampWidth, stampHeight, "D")

	qrPNG, err := StampPNG(info, 256)
	if err != nil {
		return err
	}

	imgName := fmt.Sprintf("stamp_%s_%d", info.RunID, info.Seed)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + (stampWidth-stampQRSize)/2
	qrY := y + stampPadding
	pdf.ImageOptions(imgName, qrX, qrY, stampQRSize, stampQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textW := stampWidth - 2*stampPadding
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x+stampPadding, qrY+stampQRSize+3)
	pdf.CellFormat(textW, 4.5, "Reproduce this run", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x+stampPadding, qrY+stampQRSize+8)
	caption := fmt.Sprintf("seed %d, area %.3f", info.Seed, info.Config.ContainerArea)
	pdf.CellFormat(textW, 3.5, caption, "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
