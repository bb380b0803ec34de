package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bacicli/internal/config"
	"bacicli/internal/infrastructure"
	"bacicli/internal/services"
	"bacicli/internal/validation"
	"bacicli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one report and returns the process exit code
func run(args []string, stdout io.Writer) int {
	opts, err := parseConfig(args, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		return 1
	}
	cfg := opts.Config

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}

	validator := validation.NewInputValidator(logger)
	inputs, err := validator.ValidateInputDirectory(paths.InputDir, cfg.Paths, cfg.Analysis.FileLimit)
	if err != nil {
		logger.Error("Input check failed", slog.String("error", err.Error()))
		return 1
	}
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		logger.Error("Output check failed", slog.String("error", err.Error()))
		return 1
	}
	if opts.CheckOnly {
		fmt.Fprintf(stdout, "Input %s is ready: %d trade files, %s, %s\n",
			inputs.Dir, len(inputs.TradeFiles), inputs.CountryTable, inputs.ProductTable)
		return 0
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			logger.Warn("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		logger.Error("Failed to create pipeline metrics", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "Starting BACI trade report",
		slog.String("version", contracts.Version),
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.OutputDir),
		slog.String("focus_country", cfg.Analysis.FocusCountry))

	svc := services.NewReportService(cfg, paths, metrics, logger)
	report, err := svc.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Report failed", slog.String("error", err.Error()))
		return 1
	}

	printSummary(stdout, paths, report)
	return 0
}

type options struct {
	Config    *config.Config
	CheckOnly bool
}

// parseConfig loads the configuration file and applies the flags that were
// set on top of it
func parseConfig(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("tradereport", flag.ContinueOnError)
	fs.SetOutput(output)

	configFile := fs.String("config", "", "YAML configuration file (defaults to config.yaml or configs/config.yaml)")
	in := fs.String("in", "", "directory holding the BACI trade files and code tables")
	out := fs.String("out", "", "directory the report is written to")
	limit := fs.Int("limit", 0, "number of trade files to read (0 reads all)")
	focus := fs.String("focus", "", "focus country name")
	k := fs.Int("k", 0, "number of k-means clusters")
	seed := fs.Int64("seed", 0, "k-means random seed")
	threshold := fs.Float64("threshold", 0, "correlation threshold for graph edges")
	top := fs.Int("top", 0, "number of top entities per kind")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	version := fs.Bool("version", false, "print version and exit")
	check := fs.Bool("check", false, "validate the input directory and exit without running the report")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *version {
		fmt.Fprintln(output, contracts.ReadBuildInfo())
		return nil, flag.ErrHelp
	}

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	// Only explicit flags override the file and environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Paths.InputDir = *in
		case "out":
			cfg.Paths.OutputDir = *out
		case "limit":
			cfg.Analysis.FileLimit = *limit
		case "focus":
			cfg.Analysis.FocusCountry = *focus
		case "k":
			cfg.Analysis.Clusters = *k
		case "seed":
			cfg.Analysis.Seed = *seed
		case "threshold":
			cfg.Analysis.CorrelationThreshold = *threshold
		case "top":
			cfg.Analysis.TopN = *top
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &options{Config: cfg, CheckOnly: *check}, nil
}

func printSummary(w io.Writer, paths *config.Paths, report *services.Report) {
	fmt.Fprintf(w, "Report %s completed for %s\n", report.ID, report.FocusCountry)
	fmt.Fprintf(w, "  trade files: %d, raw rows: %d, export rows: %d, import rows: %d\n",
		len(report.Inputs.TradeFiles), report.Inputs.RawRows, report.Views.ExportRows, report.Views.ImportRows)
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  skipped %s (%s): %s\n", s.Kind, s.Stage, s.Reason)
	}
	fmt.Fprintf(w, "  %d artifacts in %s\n", len(report.Artifacts), paths.OutputDir)
}
