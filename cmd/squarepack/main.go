// SquarePack: random sequential packing of unit squares
//
// Packs unit squares one at a time into a square container, nudging the
// existing squares outward between insertions, until no free space is left.
// Layouts can be verified, compared across seeds and exported to PDF, PNG,
// DXF, Excel and G-code.
//
// Build:
//   go build -o squarepack ./cmd/squarepack
//
// Examples:
//   squarepack run --area 64 --seed 7 --pdf layout.pdf
//   squarepack compare --seeds 10 area=36
//   squarepack verify layout.dxf --unit-size 50

package main

import "github.com/piwi3910/SquarePack/internal/cli"

func main() {
	cli.Execute()
}
