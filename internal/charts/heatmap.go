package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// correlationGrid adapts a correlation matrix to plotter.GridXYZ with a fixed
// [-1, 1] range
type correlationGrid struct {
	corr *mat.SymDense
}

func (g correlationGrid) Dims() (c, r int) {
	n := g.corr.SymmetricDim()
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 { return g.corr.At(r, c) }
func (g correlationGrid) X(c int) float64    { return float64(c) }
func (g correlationGrid) Y(r int) float64    { return float64(r) }
func (g correlationGrid) Min() float64       { return -1 }
func (g correlationGrid) Max() float64       { return 1 }

// HeatMap draws a correlation matrix on a blue-white-red diverging scale.
// Undefined correlations are grey.
func HeatMap(title string, entities []string, corr *mat.SymDense) (*plot.Plot, error) {
	if corr == nil || corr.SymmetricDim() == 0 {
		return nil, fmt.Errorf("heat map %q: no data", title)
	}
	if n := corr.SymmetricDim(); n != len(entities) {
		return nil, fmt.Errorf("heat map %q: %d labels for %d rows", title, len(entities), n)
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	h := plotter.NewHeatMap(correlationGrid{corr: corr}, cmap.Palette(255))
	h.NaN = color.Gray{Y: 210}

	p := newPlot(title)
	p.Add(h)

	ticks := make([]plot.Tick, len(entities))
	for i, e := range entities {
		ticks[i] = plot.Tick{Value: float64(i), Label: e}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	n := float64(len(entities))
	p.X.Min, p.X.Max = -0.5, n-0.5
	p.Y.Min, p.Y.Max = -0.5, n-0.5
	return p, nil
}
