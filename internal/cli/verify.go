package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/importer"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

var (
	verifyArea     float64 // Container area for layouts that do not carry one
	verifyUnitSize float64 // DXF drawing units per square side
)

// verifyCmd checks a layout for overlaps and containment
var verifyCmd = &cobra.Command{
	Use:   "verify LAYOUT",
	Short: "Check a layout for overlapping or escaping squares",
	Long: "Load a layout (run .json, .csv, .xlsx or .dxf) and report every square that leaves " +
		"the container and every overlapping pair. Exits non-zero on violations.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		squares, container, err := loadLayout(args[0], verifyArea, verifyUnitSize)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d squares in a %.3f x %.3f container\n", len(squares), container.Side, container.Side)
		return reportViolations(cmd.OutOrStdout(), engine.Audit(squares, container))
	},
}

// loadLayout reads squares from any supported layout file. area overrides
// the container the file describes; it is required when the file has none.
func loadLayout(path string, area, unitSize float64) ([]model.Square, model.Container, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		run, err := project.LoadRun(path)
		if err != nil {
			return nil, model.Container{}, err
		}
		container := run.Container()
		if area > 0 {
			container = model.NewContainer(area)
		}
		return run.Squares, container, nil
	}

	var result importer.ImportResult
	switch ext {
	case ".csv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path, unitSize)
	default:
		return nil, model.Container{}, fmt.Errorf("unsupported layout format %q", ext)
	}

	for _, w := range result.Warnings {
		logrus.Warn(w)
	}
	if len(result.Errors) > 0 {
		return nil, model.Container{}, fmt.Errorf("cannot import %s: %s", path, strings.Join(result.Errors, "; "))
	}

	switch {
	case area > 0:
		return result.Squares, model.NewContainer(area), nil
	case result.ContainerSide > 0:
		return result.Squares, model.Container{Side: result.ContainerSide}, nil
	}
	return nil, model.Container{}, fmt.Errorf("%s does not describe a container, pass --area", path)
}

func init() {
	verifyCmd.Flags().Float64Var(&verifyArea, "area", 0, "Container area (required unless the layout carries one)")
	verifyCmd.Flags().Float64Var(&verifyUnitSize, "unit-size", 1, "DXF drawing units per square side")
}
