package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"bacicli/internal/analytics"
)

// StackedArea draws one band per entity of m, stacked year by year in row
// order. Years are on the x axis, cumulative trade value on the y axis.
func StackedArea(title string, m *analytics.WideMatrix) (*plot.Plot, error) {
	p := newPlot(title)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Trade value (thousand USD)"
	p.Legend.Top = true
	p.Legend.Left = true

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("stacked area %q: no data", title)
	}

	years := m.Years()
	base := make([]float64, cols)
	for i, entity := range m.Entities() {
		values := m.Row(i)

		band := make(plotter.XYs, 0, 2*cols)
		for j := 0; j < cols; j++ {
			band = append(band, plotter.XY{X: float64(years[j]), Y: base[j] + values[j]})
		}
		for j := cols - 1; j >= 0; j-- {
			band = append(band, plotter.XY{X: float64(years[j]), Y: base[j]})
		}

		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, fmt.Errorf("stacked area %q, %s: %w", title, entity, err)
		}
		c := seriesColor(i)
		poly.Color = withAlpha(c, 200)
		poly.LineStyle.Color = c
		p.Add(poly)
		p.Legend.Add(entity, poly)

		for j := range base {
			base[j] += values[j]
		}
	}

	p.Add(plotter.NewGrid())
	p.X.Tick.Marker = yearTicks(years)
	return p, nil
}

// yearTicks labels every year when there are few of them and every fifth
// otherwise
func yearTicks(years []int) plot.Ticker {
	step := 1
	if len(years) > 12 {
		step = 5
	}
	ticks := make([]plot.Tick, 0, len(years))
	for i, y := range years {
		label := ""
		if i%step == 0 || i == len(years)-1 {
			label = fmt.Sprint(y)
		}
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: label})
	}
	return plot.ConstantTicks(ticks)
}
