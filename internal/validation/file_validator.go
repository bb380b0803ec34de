package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bacicli/internal/config"
	"bacicli/internal/dataprocessing"
	apperrors "bacicli/internal/errors"
	"bacicli/internal/files"
)

// InputReport summarizes a successful pre-flight check of a BACI directory
type InputReport struct {
	Dir          string
	TradeFiles   []string
	CountryTable string
	ProductTable string
	Bytes        int64
}

// InputValidator checks the input and output directories before a report
// run so that a bad layout fails in milliseconds instead of mid-load
type InputValidator struct {
	logger *slog.Logger
}

// NewInputValidator creates a new input validator
func NewInputValidator(logger *slog.Logger) *InputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InputValidator{logger: logger}
}

// ValidateInputDirectory checks that dir holds trade files and both code
// tables matching the configured patterns, and that their headers carry the
// columns the loader reads. Only the first trade file's header is read.
func (v *InputValidator) ValidateInputDirectory(dir string, paths config.PathsConfig, limit int) (*InputReport, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("input directory %s", dir))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to stat input directory", err).WithContext("directory", dir)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}

	discovery := files.NewDiscovery(dir)
	trade, err := discovery.FindTradeFiles(".", paths.TradeFilePattern, limit)
	if err != nil {
		v.logger.Error("No trade files found",
			slog.String("directory", dir),
			slog.String("pattern", paths.TradeFilePattern))
		return nil, err
	}
	countries, err := discovery.FindCodeTable(".", paths.CountryCodesPattern)
	if err != nil {
		return nil, err
	}
	products, err := discovery.FindCodeTable(".", paths.ProductCodesPattern)
	if err != nil {
		return nil, err
	}

	checks := []struct {
		kind dataprocessing.TableKind
		path string
	}{
		{dataprocessing.TableTrade, trade[0].Path},
		{dataprocessing.TableCountry, countries.Path},
		{dataprocessing.TableProduct, products.Path},
	}
	for _, c := range checks {
		if err := v.ValidateHeader(c.kind, c.path); err != nil {
			return nil, err
		}
	}

	report := &InputReport{
		Dir:          dir,
		TradeFiles:   make([]string, len(trade)),
		CountryTable: countries.Name,
		ProductTable: products.Name,
		Bytes:        files.TotalSize(trade) + countries.Size + products.Size,
	}
	for i, f := range trade {
		report.TradeFiles[i] = f.Name
	}

	v.logger.Info("Input directory validated",
		slog.String("directory", dir),
		slog.Int("trade_files", len(trade)),
		slog.String("country_table", countries.Name),
		slog.String("product_table", products.Name),
		slog.Int64("bytes", report.Bytes))
	return report, nil
}

// ValidateHeader checks that the header of the table at path has every
// column its kind needs
func (v *InputValidator) ValidateHeader(kind dataprocessing.TableKind, path string) error {
	header, err := dataprocessing.ReadFileHeader(path)
	if err != nil {
		v.logger.Error("Failed to read table header",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return err
	}

	missing := dataprocessing.MissingColumns(kind, header)
	if len(missing) > 0 {
		v.logger.Error("Table is missing required columns",
			slog.String("file", path),
			slog.String("table", string(kind)),
			slog.Any("missing", missing))
		return apperrors.NewParsingError(
			fmt.Sprintf("%s table %s is missing columns: %s", kind, filepath.Base(path), strings.Join(missing, ", ")),
			nil,
		).WithContext("file", path)
	}

	v.logger.Debug("Table header validated",
		slog.String("file", path),
		slog.String("table", string(kind)))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created and accepts writes
func (v *InputValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
