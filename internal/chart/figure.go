// Package chart renders a price series and its moving averages.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"StockAnalyzer/internal/model"
)

// DefaultDPI is the resolution of saved charts.
const DefaultDPI = 300

var (
	closeColor = color.RGBA{R: 0x1f, G: 0x3f, B: 0xd0, A: 0xff}
	shortColor = color.RGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff}
	longColor  = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	gridColor  = color.Gray{Y: 0xdd}
)

// Figure is a built chart ready to be written out.
type Figure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
	Lines  []string // legend labels in draw order
}

// Build lays out the close price and both moving averages of series. It does
// no I/O.
func Build(series *model.PriceSeries) (*Figure, error) {
	if series == nil || series.Len() == 0 {
		return nil, errors.New("chart: empty series")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Stock Price with Moving Averages", series.Symbol)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Date"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = "Price (USD)"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(10)

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)

	fig := &Figure{Plot: p, Width: 14 * vg.Inch, Height: 7 * vg.Inch}

	if err := fig.addLine("Close Price", xys(series, series.Closes()), closeColor, 2, false); err != nil {
		return nil, err
	}
	if series.HasMovingAverages() {
		label := fmt.Sprintf("%d-Day MA", series.ShortWindow)
		if err := fig.addLine(label, xys(series, series.MAShort), shortColor, 1.5, true); err != nil {
			return nil, err
		}
		label = fmt.Sprintf("%d-Day MA", series.LongWindow)
		if err := fig.addLine(label, xys(series, series.MALong), longColor, 1.5, true); err != nil {
			return nil, err
		}
	}
	return fig, nil
}

func (f *Figure) addLine(label string, pts plotter.XYs, c color.Color, width float64, dashed bool) error {
	// A window longer than the series leaves nothing to draw.
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("chart: %s line: %w", label, err)
	}
	line.LineStyle.Width = vg.Points(width)
	line.LineStyle.Color = c
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}
	f.Plot.Add(line)
	f.Plot.Legend.Add(label, line)
	f.Lines = append(f.Lines, label)
	return nil
}

// xys pairs bar dates with values, skipping undefined (NaN) points.
func xys(series *model.PriceSeries, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(series.Bars[i].Time.Unix()), Y: v})
	}
	return pts
}
