package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"bacicli/internal/dataprocessing"
)

// Rect is a treemap tile in the unit square
type Rect struct {
	Entity     string
	X, Y, W, H float64
	Share      float64
}

// SliceAndDice lays shares out in the unit square, alternating horizontal and
// vertical cuts. Tiles keep the input order and their areas are proportional
// to the values; non-positive values are skipped.
func SliceAndDice(shares []dataprocessing.EntityShare) []Rect {
	var items []dataprocessing.EntityShare
	var total float64
	for _, s := range shares {
		if s.Value > 0 {
			items = append(items, s)
			total += s.Value
		}
	}

	rects := make([]Rect, 0, len(items))
	x, y, w, h := 0.0, 0.0, 1.0, 1.0
	remaining := total
	for i, s := range items {
		if i == len(items)-1 {
			rects = append(rects, Rect{Entity: s.Entity, X: x, Y: y, W: w, H: h, Share: s.Value / total})
			break
		}

		frac := s.Value / remaining
		r := Rect{Entity: s.Entity, X: x, Y: y, Share: s.Value / total}
		if i%2 == 0 {
			r.W, r.H = w*frac, h
			x += r.W
			w -= r.W
		} else {
			r.W, r.H = w, h*frac
			y += r.H
			h -= r.H
		}
		rects = append(rects, r)
		remaining -= s.Value
	}
	return rects
}

// Treemap draws the shares of one year as a slice-and-dice treemap
func Treemap(title string, shares []dataprocessing.EntityShare) (*plot.Plot, error) {
	rects := SliceAndDice(shares)
	if len(rects) == 0 {
		return nil, fmt.Errorf("treemap %q: no positive values", title)
	}

	p := newPlot(title)
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	labels := plotter.XYLabels{}
	for i, r := range rects {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: r.X, Y: r.Y},
			{X: r.X + r.W, Y: r.Y},
			{X: r.X + r.W, Y: r.Y + r.H},
			{X: r.X, Y: r.Y + r.H},
		})
		if err != nil {
			return nil, err
		}
		poly.Color = withAlpha(seriesColor(i), 180)
		poly.LineStyle.Color = withAlpha(seriesColor(i), 255)
		p.Add(poly)

		labels.XYs = append(labels.XYs, plotter.XY{X: r.X + 0.005, Y: r.Y + r.H - 0.02})
		labels.Labels = append(labels.Labels, fmt.Sprintf("%s %.1f%%", r.Entity, 100*r.Share))
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	p.Add(l)
	return p, nil
}
