package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/SquarePack/internal/geometry"
	"github.com/piwi3910/SquarePack/internal/model"
)

// Generator produces GCode that cuts every square of a packed layout out of
// sheet stock.
type Generator struct {
	Settings Settings
	profile  Profile
}

// New returns a generator using the built-in profile named in settings.
func New(settings Settings) *Generator {
	return NewWithProfile(settings, GetProfile(settings.Profile))
}

// NewWithProfile returns a generator using an explicit (possibly custom) profile.
func NewWithProfile(settings Settings, profile Profile) *Generator {
	return &Generator{Settings: settings, profile: profile}
}

// Generate produces the program for a run's layout.
func (g *Generator) Generate(run model.Run) string {
	var b strings.Builder

	g.writeHeader(&b, run)

	for i, sq := range run.Squares {
		g.writeSquare(&b, sq, i+1)
	}
	if g.Settings.CutContainer {
		g.writeContainer(&b, run.Container())
	}

	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, run model.Run) {
	p := g.profile
	side := run.Container().Side * g.Settings.UnitSize

	b.WriteString(g.comment(fmt.Sprintf("SquarePack GCode - %s (%s)", run.Name, run.ID)))
	b.WriteString(g.comment(fmt.Sprintf("Container: %.1f x %.1f mm, unit %.1f mm", side, side, g.Settings.UnitSize)))
	b.WriteString(g.comment(fmt.Sprintf("Squares: %d, Density: %.1f%%, Seed: %d", run.Count(), run.Density(), run.Seed)))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %.1fmm passes", g.Settings.CutDepth, g.Settings.PassDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart, g.Settings.SpindleSpeed) + "\n")
	}

	// Initial safe Z retract
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))

	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}

	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}
}

func (g *Generator) writeSquare(b *strings.Builder, sq model.Square, num int) {
	b.WriteString(g.comment(fmt.Sprintf("--- Square %d at (%.3f, %.3f) rot %.1f deg ---",
		num, sq.X, sq.Y, sq.Rotation*180/math.Pi)))
	g.writeClosedPath(b, g.toolPath(geometry.SquareVertices(sq)), g.Settings.TabsPerSide)
}

func (g *Generator) writeContainer(b *strings.Builder, c model.Container) {
	b.WriteString(g.comment("--- Container boundary ---"))
	outline := model.Outline{{X: 0, Y: 0}, {X: c.Side, Y: 0}, {X: c.Side, Y: c.Side}, {X: 0, Y: c.Side}}
	g.writeClosedPath(b, g.toolPath(outline), 0)
}

// toolPath scales a counter-clockwise layout polygon to machine units and
// offsets it outward by the tool radius. Climb milling traverses it clockwise.
func (g *Generator) toolPath(outline model.Outline) model.Outline {
	scaled := make(model.Outline, len(outline))
	for i, p := range outline {
		scaled[i] = p.Scale(g.Settings.UnitSize)
	}
	path := offsetOutline(scaled, g.Settings.ToolDiameter/2.0)
	if g.Settings.UseClimb {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}
	return path
}

func (g *Generator) writeClosedPath(b *strings.Builder, path model.Outline, tabsPerSide int) {
	if len(path) < 3 {
		b.WriteString(g.comment("WARNING: outline has fewer than 3 points, skipping"))
		return
	}

	numPasses := int(math.Ceil(g.Settings.CutDepth / g.Settings.PassDepth))

	for pass := 1; pass <= numPasses; pass++ {
		depth := float64(pass) * g.Settings.PassDepth
		if depth > g.Settings.CutDepth {
			depth = g.Settings.CutDepth
		}
		isFinalPass := pass == numPasses

		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, numPasses, depth)))

		// Rapid to first point
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove,
			g.format(path[0].X), g.format(path[0].Y)))
		// Plunge
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove,
			g.format(-depth), g.format(g.Settings.PlungeRate)))

		for i := range path {
			from, to := path[i], path[(i+1)%len(path)]
			if isFinalPass && tabsPerSide > 0 {
				g.writeSideWithTabs(b, from, to, depth, tabsPerSide)
			} else {
				b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
					g.format(to.X), g.format(to.Y), g.format(g.Settings.FeedRate)))
			}
		}

		// Retract
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}

	b.WriteString("\n")
}

// writeSideWithTabs cuts from one corner to the next, lifting to the tab
// height over tabsPerSide evenly spaced tabs.
func (g *Generator) writeSideWithTabs(b *strings.Builder, from, to model.Point2D, cutDepth float64, tabsPerSide int) {
	tabDepth := cutDepth - g.Settings.TabHeight
	if tabDepth < 0 {
		tabDepth = 0
	}
	tw := g.Settings.TabWidth

	d := to.Sub(from)
	length := d.Length()
	if length < 0.001 {
		return
	}
	dir := d.Scale(1 / length)
	spacing := length / float64(tabsPerSide+1)

	// Walk along the side, raising Z for tabs
	cursor := 0.0
	for t := 1; t <= tabsPerSide; t++ {
		center := spacing * float64(t)
		tabStart := math.Max(center-tw/2, cursor)
		tabEnd := math.Min(center+tw/2, length)

		// Cut to tab start
		if tabStart > cursor {
			p := from.Add(dir.Scale(tabStart))
			b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove, g.format(p.X), g.format(p.Y), g.format(g.Settings.FeedRate)))
		}

		// Raise to tab height
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.FeedMove, g.format(-tabDepth)))
		// Traverse tab
		p := from.Add(dir.Scale(tabEnd))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.FeedMove, g.format(p.X), g.format(p.Y)))
		// Plunge back down
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.FeedMove, g.format(-cutDepth)))

		cursor = tabEnd
	}

	// Finish to end of side
	b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove, g.format(to.X), g.format(to.Y), g.format(g.Settings.FeedRate)))
}

// offsetOutline moves each edge of a counter-clockwise convex polygon outward
// by dist and returns the mitred corners of the result.
func offsetOutline(outline model.Outline, dist float64) model.Outline {
	n := len(outline)
	if n < 3 || dist == 0 {
		out := make(model.Outline, n)
		copy(out, outline)
		return out
	}

	result := make(model.Outline, n)
	for i := 0; i < n; i++ {
		prev := outline[(i-1+n)%n]
		curr := outline[i]
		next := outline[(i+1)%n]

		// Outward normals: right of travel direction for CCW order
		n1x, n1y := normalize(curr.Y-prev.Y, -(curr.X - prev.X))
		n2x, n2y := normalize(next.Y-curr.Y, -(next.X - curr.X))

		// Miter: the corner moves along n1+n2 far enough that both edges
		// shift by exactly dist.
		k := 1 + n1x*n2x + n1y*n2y
		if k < 1e-9 {
			k = 1
		}
		result[i] = model.Point2D{
			X: curr.X + (n1x+n2x)/k*dist,
			Y: curr.Y + (n1y+n2y)/k*dist,
		}
	}
	return result
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	s := fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
	if strings.Trim(s, "-0.") == "" {
		return strings.TrimPrefix(s, "-")
	}
	return s
}

// normalize returns a unit vector in the given direction.
func normalize(x, y float64) (float64, float64) {
	length := math.Sqrt(x*x + y*y)
	if length < 1e-9 {
		return 0, 0
	}
	return x / length, y / length
}
