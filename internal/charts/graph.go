package charts

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"bacicli/internal/analytics"
)

// Node radius bounds of the cluster graph plot
const (
	minNodeRadius = 4
	maxNodeRadius = 16
)

// CircleLayout places nodes on the unit circle, grouped by cluster label and
// in row order within a cluster
func CircleLayout(nodes []*analytics.EntityNode) map[int64]plotter.XY {
	ordered := append([]*analytics.EntityNode(nil), nodes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Cluster < ordered[j].Cluster
	})

	pos := make(map[int64]plotter.XY, len(ordered))
	for k, n := range ordered {
		angle := math.Pi/2 - 2*math.Pi*float64(k)/float64(len(ordered))
		pos[n.ID()] = plotter.XY{X: math.Cos(angle), Y: math.Sin(angle)}
	}
	return pos
}

// ClusterGraph draws a correlation graph: nodes on a circle colored by
// cluster and sized by total value, edges as straight segments
func ClusterGraph(title string, g *analytics.CorrelationGraph) (*plot.Plot, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("cluster graph %q: no nodes", title)
	}

	p := newPlot(title)
	p.HideAxes()
	p.X.Min, p.X.Max = -1.4, 1.4
	p.Y.Min, p.Y.Max = -1.3, 1.3

	pos := CircleLayout(nodes)
	byEntity := make(map[string]plotter.XY, len(nodes))
	maxTotal := 0.0
	for _, n := range nodes {
		byEntity[n.Entity] = pos[n.ID()]
		maxTotal = math.Max(maxTotal, n.Total)
	}

	for _, e := range g.Edges() {
		line, err := plotter.NewLine(plotter.XYs{byEntity[e.From], byEntity[e.To]})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = color.Gray{Y: 150}
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
	}

	clusters := make(map[int]bool)
	labels := plotter.XYLabels{}
	for _, n := range nodes {
		xy := pos[n.ID()]
		scatter, err := plotter.NewScatter(plotter.XYs{xy})
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = clusterColor(n.Cluster)
		scatter.GlyphStyle.Radius = nodeRadius(n.Total, maxTotal)
		p.Add(scatter)

		if !clusters[n.Cluster] {
			clusters[n.Cluster] = true
			p.Legend.Add(fmt.Sprintf("Cluster %d", n.Cluster), scatter)
		}

		labels.XYs = append(labels.XYs, plotter.XY{X: xy.X * 1.12, Y: xy.Y * 1.12})
		labels.Labels = append(labels.Labels, n.Entity)
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(l)
	p.Legend.Top = true
	return p, nil
}

// nodeRadius scales with the square root of the total so that glyph area
// tracks value
func nodeRadius(total, maxTotal float64) vg.Length {
	if maxTotal <= 0 || total <= 0 {
		return vg.Points(minNodeRadius)
	}
	return vg.Points(minNodeRadius + (maxNodeRadius-minNodeRadius)*math.Sqrt(total/maxTotal))
}

func clusterColor(cluster int) color.Color {
	if cluster < 1 {
		return color.Gray{Y: 120}
	}
	return seriesColor(cluster - 1)
}
