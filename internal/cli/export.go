package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/project"
)

var exportOutputs outputOptions

// exportCmd renders a saved run
var exportCmd = &cobra.Command{
	Use:   "export RUN.json",
	Short: "Export a saved run to PDF, PNG, DXF, Excel or G-code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o := exportOutputs
		if !o.exports() {
			return fmt.Errorf("no output requested, pass at least one of --pdf --png --dxf --xlsx --gcode")
		}

		run, err := project.LoadRun(args[0])
		if err != nil {
			return err
		}
		_, err = writeOutputs(run, nil, o, loadAppConfig())
		return err
	},
}

func init() {
	addOutputFlags(exportCmd, &exportOutputs)
}
