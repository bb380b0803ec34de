// Package charts renders the report figures with gonum/plot: stacked area
// charts of the top partner and product series, slice-and-dice treemaps of
// product shares, correlation heat maps and cluster graph plots.
//
// Chart constructors return a *plot.Plot; Renderer.Save writes it as a PNG
// under the charts directory.
package charts
