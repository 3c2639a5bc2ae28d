// Package laneplot renders a shot's trajectory as a lane-shaped PNG:
// downlane feet on X, board position on Y, breakpoint marked when
// found. Used by the shot-plot tool; the web UI draws its own view.
package laneplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lanetrax/shotmetrics/internal/analysis"
	"github.com/lanetrax/shotmetrics/internal/track"
	"github.com/lanetrax/shotmetrics/internal/units"
)

// RenderShotPNG writes the lane plot for the given trajectory to path.
// Returns an error when the trajectory has no positioned samples.
func RenderShotPNG(samples []track.Sample, bp analysis.Breakpoint, title, path string) error {
	positioned := track.FilterPositioned(samples)
	if len(positioned) == 0 {
		return fmt.Errorf("no positioned samples to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Downlane (ft)"
	p.Y.Label.Text = "Board"
	p.X.Min = 0
	p.X.Max = units.LaneLengthFeet
	p.Y.Min = 0
	p.Y.Max = units.BoardsPerLane

	pts := make(plotter.XYs, 0, len(positioned))
	for _, s := range positioned {
		pts = append(pts, plotter.XY{X: s.Lane.DistanceFeet, Y: s.Lane.Board})
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 30, G: 100, B: 220, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("ball path", line)

	// Arrows reference line at 15 feet.
	arrows := plotter.XYs{
		{X: units.ArrowsDistanceFeet, Y: 0},
		{X: units.ArrowsDistanceFeet, Y: units.BoardsPerLane},
	}
	arrowLine, err := plotter.NewLine(arrows)
	if err != nil {
		return err
	}
	arrowLine.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	arrowLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(arrowLine)

	if bp.Found {
		mark, err := plotter.NewScatter(plotter.XYs{{X: bp.DistanceFeet, Y: bp.Board}})
		if err != nil {
			return err
		}
		mark.GlyphStyle.Color = color.RGBA{R: 220, G: 40, B: 40, A: 255}
		mark.GlyphStyle.Radius = vg.Points(4)
		p.Add(mark)
		p.Legend.Add("breakpoint", mark)
	}

	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
