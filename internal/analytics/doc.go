// Package analytics turns aggregated trade series into cluster assignments
// and correlation graphs.
//
// The functions here are pure: they take a series or a matrix and return new
// values without logging or touching the filesystem. The typical flow is
//
//	m := NewWideMatrix(series, topEntities)
//	std := StandardizeColumns(m)
//	km, err := KMeans(std.Data, DefaultOptions())
//	g, err := BuildCorrelationGraph(m, km.Labels, DefaultCorrelationThreshold)
//
// which ClusterAndGraph wraps. Clustering runs on the standardized matrix,
// correlation on the raw one. Degenerate inputs surface as
// ErrInsufficientEntities, ErrInvalidClusterCount or ErrNonFiniteInput.
package analytics
