package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacicli/internal/config"
	"bacicli/internal/infrastructure"
	"bacicli/internal/shared/testutil"
)

func TestParseConfig(t *testing.T) {
	var out bytes.Buffer
	opts, err := parseConfig([]string{
		"-in", "/data/baci", "-limit", "3", "-focus", "France",
		"-k", "3", "-seed", "7", "-threshold", "0.9", "-top", "5",
	}, &out)
	require.NoError(t, err)
	assert.False(t, opts.CheckOnly)
	cfg := opts.Config

	assert.Equal(t, "/data/baci", cfg.Paths.InputDir)
	assert.Equal(t, 3, cfg.Analysis.FileLimit)
	assert.Equal(t, "France", cfg.Analysis.FocusCountry)
	assert.Equal(t, 3, cfg.Analysis.Clusters)
	assert.Equal(t, int64(7), cfg.Analysis.Seed)
	assert.Equal(t, 0.9, cfg.Analysis.CorrelationThreshold)
	assert.Equal(t, 5, cfg.Analysis.TopN)

	// unset flags keep their defaults
	assert.Equal(t, config.DefaultOutputDir, cfg.Paths.OutputDir)
}

func TestParseConfig_Invalid(t *testing.T) {
	var out bytes.Buffer
	_, err := parseConfig([]string{"-k", "0"}, &out)
	assert.Error(t, err)

	_, err = parseConfig([]string{"-threshold", "2"}, &out)
	assert.Error(t, err)

	_, err = parseConfig([]string{"-nope"}, &out)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	fixture := testutil.NewBACIFixture(t)
	fixture.UKTradeYears(t, 2015, 8)
	outDir := filepath.Join(t.TempDir(), "reports")

	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out bytes.Buffer
	code := run([]string{"-in", fixture.Dir, "-out", outDir, "-log-level", "error"}, &out)
	require.Equal(t, 0, code, out.String())

	assert.Contains(t, out.String(), "completed for United Kingdom")
	assert.FileExists(t, filepath.Join(outDir, config.WorkbookFileName))
	assert.FileExists(t, filepath.Join(outDir, config.SummaryFileName))
}

func TestRun_MissingInput(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out bytes.Buffer
	code := run([]string{"-in", filepath.Join(t.TempDir(), "missing"), "-out", t.TempDir(), "-log-level", "error"}, &out)
	assert.Equal(t, 1, code)
}

func TestRun_Check(t *testing.T) {
	fixture := testutil.NewBACIFixture(t)
	fixture.UKTradeYears(t, 2015, 3)
	outDir := filepath.Join(t.TempDir(), "reports")

	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out bytes.Buffer
	code := run([]string{"-check", "-in", fixture.Dir, "-out", outDir, "-log-level", "error"}, &out)
	require.Equal(t, 0, code, out.String())

	assert.Contains(t, out.String(), "3 trade files")
	assert.NoFileExists(t, filepath.Join(outDir, config.WorkbookFileName))
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &out))
	assert.Contains(t, out.String(), "BACI Trade Report")
}
