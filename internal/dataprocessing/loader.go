package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "bacicli/internal/errors"
	"bacicli/internal/files"
	"bacicli/pkg/contracts/domain"
)

// LoaderConfig holds the input layout the loader discovers files with
type LoaderConfig struct {
	InputDir            string
	TradeFilePattern    string
	CountryCodesPattern string
	ProductCodesPattern string
	FileLimit           int
	Workers             int
}

// Dataset is everything the normalizer needs from one input directory
type Dataset struct {
	Rows         []domain.RawTradeRow
	Countries    map[int]string
	Products     map[string]string
	TradeFiles   []files.FileInfo
	CountryTable string
	ProductTable string
}

// Loader discovers and parses BACI inputs
type Loader struct {
	logger    *slog.Logger
	config    LoaderConfig
	discovery *files.Discovery
}

// NewLoader creates a loader rooted at cfg.InputDir
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Loader{
		logger:    logger.With("component", "loader"),
		config:    cfg,
		discovery: files.NewDiscovery(cfg.InputDir),
	}
}

// Load discovers the trade files and both code tables, then parses them
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	tradeFiles, err := l.discovery.FindTradeFiles(".", l.config.TradeFilePattern, l.config.FileLimit)
	if err != nil {
		return nil, err
	}

	countryTable, err := l.discovery.FindCodeTable(".", l.config.CountryCodesPattern)
	if err != nil {
		return nil, err
	}
	productTable, err := l.discovery.FindCodeTable(".", l.config.ProductCodesPattern)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "discovered input files",
		slog.Int("trade_files", len(tradeFiles)),
		slog.Int64("trade_bytes", files.TotalSize(tradeFiles)),
		slog.String("first", tradeFiles[0].Name),
		slog.String("last", tradeFiles[len(tradeFiles)-1].Name),
		slog.String("country_table", countryTable.Name),
		slog.String("product_table", productTable.Name))

	countries, err := LoadCountryCodes(countryTable.Path)
	if err != nil {
		return nil, err
	}
	products, err := LoadProductCodes(productTable.Path)
	if err != nil {
		return nil, err
	}

	rows, err := l.LoadAll(ctx, tradeFiles)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Rows:         rows,
		Countries:    countries,
		Products:     products,
		TradeFiles:   tradeFiles,
		CountryTable: countryTable.Path,
		ProductTable: productTable.Path,
	}, nil
}

// LoadAll parses trade files concurrently and concatenates their rows in
// file order, so the result matches a sequential read.
func (l *Loader) LoadAll(ctx context.Context, tradeFiles []files.FileInfo) ([]domain.RawTradeRow, error) {
	start := time.Now()
	results := make([][]domain.RawTradeRow, len(tradeFiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.config.Workers)

	for i, f := range tradeFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := parseTradeFilePath(f.Path)
			if err != nil {
				return err
			}
			results[i] = rows
			l.logger.DebugContext(gctx, "parsed trade file",
				slog.String("file", f.Name),
				slog.Int("rows", len(rows)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	rows := make([]domain.RawTradeRow, 0, total)
	for _, r := range results {
		rows = append(rows, r...)
	}

	l.logger.InfoContext(ctx, "loaded trade rows",
		slog.Int("files", len(tradeFiles)),
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(start)))

	return rows, nil
}

func parseTradeFilePath(path string) ([]domain.RawTradeRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open trade file", err).WithContext("file", path)
	}
	defer file.Close()

	rows, err := ParseTradeFile(file)
	if err != nil {
		return nil, addFileContext(err, path)
	}
	return rows, nil
}
