package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pic.report/internal/pic/l4peaks"
	"github.com/banshee-data/pic.report/internal/pic/l5beamlets"
	"github.com/banshee-data/pic.report/internal/pic/pipeline"
	"github.com/banshee-data/pic.report/internal/pic/spectrum"
)

func sampleResult() *pipeline.Result {
	axis := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	proj := []float64{0, 2, 5, 2, 1, 3, 6, 3, 1, 0}
	return &pipeline.Result{
		Simulation: "report-test",
		Dump:       12,
		Species:    "beam",
		X1Axis:     axis,
		Projection: proj,
		Smoothed:   proj,
		Window:     1,
		PeakCount:  2,
		Segments: []l4peaks.Segment{
			{Peak: l4peaks.Peak{Index: 2, Height: 5, Prominence: 4}, Start: 0, Stop: 4},
			{Peak: l4peaks.Peak{Index: 6, Height: 6, Prominence: 5}, Start: 4, Stop: 9},
		},
		Beamlets: []l5beamlets.Beamlet{
			{
				Axis: axis[0:5], Profile: proj[0:5], Peak: 2,
				FWHM:           l5beamlets.Interval{Lo: 2, Hi: 2},
				TransverseAxis: []float64{-1, 0, 1}, TransverseProfile: []float64{1, 3, 1},
			},
			{
				Axis: axis[4:10], Profile: proj[4:10], Peak: 2,
				FWHM:           l5beamlets.Interval{Lo: 1, Hi: 3},
				TransverseAxis: []float64{-1, 0, 1}, TransverseProfile: []float64{2, 4, 2},
			},
		},
		TotalCharge: 1.5,
		LengthUnit:  "c/ω_p",
		ChargeUnit:  "e n_0 (c/ω_p)^3",
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleResult()))
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])
}

func TestWritePNGEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePNG(&buf, nil), ErrEmptyResult)
	assert.ErrorIs(t, WritePNG(&buf, &pipeline.Result{}), ErrEmptyResult)
}

func TestWriteHTML(t *testing.T) {
	signal := make([]float64, 64)
	for i := range signal {
		signal[i] = float64(i % 8)
	}
	sp, err := spectrum.Compute(signal, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleResult(), sp))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "report-test dump 12")
	assert.Contains(t, html, "Transverse profiles")
	assert.Contains(t, html, "Longitudinal spectrum")
	assert.Contains(t, html, "smoothed")
}

func TestWriteHTMLWithoutBeamlets(t *testing.T) {
	res := sampleResult()
	res.Segments, res.Beamlets = nil, nil

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, res, nil))
	assert.NotContains(t, buf.String(), "Transverse profiles")
	assert.Error(t, WriteHTML(&buf, nil, nil))
}
