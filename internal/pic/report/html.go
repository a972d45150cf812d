package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/pic.report/internal/pic/pipeline"
	"github.com/banshee-data/pic.report/internal/pic/spectrum"
)

// AssetsHost is where the rendered page loads the echarts scripts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

func lineData(x, y []float64) []opts.LineData {
	out := make([]opts.LineData, len(x))
	for i := range x {
		out[i] = opts.LineData{Value: []interface{}{x[i], y[i]}}
	}
	return out
}

func newLine(pageTitle, chartTitle, subtitle, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "1100px", Height: "450px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: chartTitle, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xName, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName}),
	)
	return line
}

func projectionChart(res *pipeline.Result) *charts.Line {
	line := newLine("Beamlets", title(res),
		fmt.Sprintf("total charge %.4g %s", res.TotalCharge, res.ChargeUnit),
		fmt.Sprintf("x1 (%s)", res.LengthUnit), "projected |density|")

	marks := make([]opts.MarkLineNameXAxisItem, 0, len(res.Segments)+1)
	for i, s := range res.Segments {
		if i == 0 {
			marks = append(marks, opts.MarkLineNameXAxisItem{Name: "start", XAxis: res.X1Axis[s.Start]})
		}
		marks = append(marks, opts.MarkLineNameXAxisItem{Name: fmt.Sprintf("end %d", i+1), XAxis: res.X1Axis[s.Stop]})
	}

	noSymbol := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
	line.AddSeries("projection", lineData(res.X1Axis, res.Projection), noSymbol)
	line.AddSeries("smoothed", lineData(res.X1Axis, res.Smoothed), noSymbol,
		charts.WithMarkLineNameXAxisItemOpts(marks...))
	return line
}

func transverseChart(res *pipeline.Result) *charts.Line {
	line := newLine("Beamlets", "Transverse profiles", "", fmt.Sprintf("x2 (%s)", res.LengthUnit), "summed |density|")
	noSymbol := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
	for i, b := range res.Beamlets {
		line.AddSeries(fmt.Sprintf("beamlet %d", i+1), lineData(b.TransverseAxis, b.TransverseProfile), noSymbol)
	}
	return line
}

func spectrumChart(s *spectrum.Spectrum, lengthUnit string) *charts.Line {
	line := newLine("Beamlets", "Longitudinal spectrum",
		fmt.Sprintf("peak k = %.4g rad/%s (λ = %.4g %s)", s.PeakWavenumber, lengthUnit, s.PeakWavelength, lengthUnit),
		fmt.Sprintf("k (rad/%s)", lengthUnit), "power")
	line.AddSeries("power", lineData(s.Wavenumber, s.Power), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	return line
}

// WriteHTML renders an interactive page with the projection, the transverse
// profiles of every beamlet and, when sp is non-nil, the spectrum.
func WriteHTML(w io.Writer, res *pipeline.Result, sp *spectrum.Spectrum) error {
	if res == nil {
		return ErrEmptyResult
	}
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("Beamlets: %s dump %d", res.Simulation, res.Dump))
	page.SetAssetsHost(AssetsHost)
	page.AddCharts(projectionChart(res))
	if len(res.Beamlets) > 0 {
		page.AddCharts(transverseChart(res))
	}
	if sp != nil {
		page.AddCharts(spectrumChart(sp, res.LengthUnit))
	}
	return page.Render(w)
}
