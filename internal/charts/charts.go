package charts

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bacicli/internal/config"
	"bacicli/internal/files"
)

// Default canvas size of a rendered chart
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

// Renderer draws report charts as PNG files under the charts directory
type Renderer struct {
	files  *files.Manager
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewRenderer creates a renderer writing through manager
func NewRenderer(manager *files.Manager, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		files:  manager,
		width:  DefaultWidth,
		height: DefaultHeight,
		logger: logger.With("component", "charts"),
	}
}

// WithSize returns a copy of the renderer drawing at the given size
func (r *Renderer) WithSize(width, height vg.Length) *Renderer {
	c := *r
	c.width, c.height = width, height
	return &c
}

// ChartPath is where a chart called name is saved
func ChartPath(name string) string {
	return "charts/" + config.Slug(name) + ".png"
}

// Save renders p as charts/<name>.png and returns that relative path
func (r *Renderer) Save(name string, p *plot.Plot) (string, error) {
	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render chart %s: %w", name, err)
	}

	path := ChartPath(name)
	err = r.files.WriteWith(path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}

	r.logger.Debug("saved chart", slog.String("path", path))
	return path, nil
}

// newPlot creates a plot with the title style shared by every chart
func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	return p
}

// seriesColor picks the i-th color of the default palette
func seriesColor(i int) color.Color {
	return plotutil.Color(i)
}

// withAlpha returns c with its alpha channel replaced
func withAlpha(c color.Color, alpha uint8) color.Color {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	nrgba.A = alpha
	return nrgba
}
