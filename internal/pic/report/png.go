// Package report renders beamlet analysis results: a PNG of the longitudinal
// projection with segment boundaries and an interactive HTML page.
package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pic.report/internal/pic/pipeline"
)

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pts
}

func title(res *pipeline.Result) string {
	return fmt.Sprintf("%s dump %d, species %s: %d beamlets", res.Simulation, res.Dump, res.Species, len(res.Beamlets))
}

// WritePNG draws the raw and smoothed projections, the segment boundaries and
// the FWHM interval of every beamlet, and encodes the figure as PNG to w.
func WritePNG(w io.Writer, res *pipeline.Result) error {
	if res == nil || len(res.X1Axis) == 0 {
		return ErrEmptyResult
	}

	p := plot.New()
	p.Title.Text = title(res)
	p.X.Label.Text = fmt.Sprintf("x1 (%s)", res.LengthUnit)
	p.Y.Label.Text = "projected |density|"

	raw, err := plotter.NewLine(xys(res.X1Axis, res.Projection))
	if err != nil {
		return err
	}
	raw.Color = color.Gray{Y: 160}
	raw.Width = vg.Points(1)
	p.Add(raw)
	p.Legend.Add("projection", raw)

	smooth, err := plotter.NewLine(xys(res.X1Axis, res.Smoothed))
	if err != nil {
		return err
	}
	smooth.Color = plotutil.Color(0)
	smooth.Width = vg.Points(1.5)
	p.Add(smooth)
	p.Legend.Add(fmt.Sprintf("smoothed (window %d)", res.Window), smooth)

	top := floats.Max(res.Projection)
	for i, s := range res.Segments {
		for _, idx := range []int{s.Start, s.Stop} {
			x := res.X1Axis[idx]
			edge, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
			if err != nil {
				return err
			}
			edge.Color = color.Black
			edge.Dashes = plotutil.Dashes(2)
			p.Add(edge)
		}

		b := res.Beamlets[i]
		lo, hi := b.Axis[b.FWHM.Lo], b.Axis[b.FWHM.Hi]
		half := b.Profile[b.Peak] / 2
		fwhm, err := plotter.NewLine(plotter.XYs{{X: lo, Y: half}, {X: hi, Y: half}})
		if err != nil {
			return err
		}
		fwhm.Color = plotutil.Color(i + 1)
		fwhm.Width = vg.Points(2)
		p.Add(fwhm)
		p.Legend.Add(fmt.Sprintf("beamlet %d FWHM", i+1), fwhm)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(12*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}
