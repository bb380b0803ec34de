package dataprocessing

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "bacicli/internal/errors"
)

func TestParseTradeFile(t *testing.T) {
	input := "\ufefft,i,j,k,v,q\n" +
		"2020,826,251,270900,1500.5,12.25\n" +
		"2020,826,276,10121,3.2,NA\n" +
		"2020, 251, 826, 870323 ,44,\n" +
		"\n"

	rows, err := ParseTradeFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2020, rows[0].Year)
	assert.Equal(t, 826, rows[0].ExporterCode)
	assert.Equal(t, 251, rows[0].ImporterCode)
	assert.Equal(t, "270900", rows[0].ProductCode)
	assert.Equal(t, 1500.5, rows[0].Value)
	assert.Equal(t, 12.25, rows[0].Quantity)

	assert.Equal(t, "010121", rows[1].ProductCode, "HS6 codes are left padded")
	assert.True(t, math.IsNaN(rows[1].Quantity))

	assert.Equal(t, 251, rows[2].ExporterCode)
	assert.Equal(t, "870323", rows[2].ProductCode)
	assert.True(t, math.IsNaN(rows[2].Quantity))
}

func TestParseTradeFile_ColumnOrder(t *testing.T) {
	input := "k,v,q,t,i,j\n270900,10,1,2021,826,842\n"

	rows, err := ParseTradeFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2021, rows[0].Year)
	assert.Equal(t, 842, rows[0].ImporterCode)
	assert.Equal(t, 10.0, rows[0].Value)
}

func TestParseTradeFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", "empty"},
		{"missing column", "t,i,j,k,v\n2020,1,2,3,4\n", `"q"`},
		{"bad year", "t,i,j,k,v,q\nyear,826,251,270900,1,1\n", "line 2"},
		{"bad value", "t,i,j,k,v,q\n2020,826,251,270900,1,1\n2020,826,251,270900,abc,1\n", "line 3"},
		{"bad quantity", "t,i,j,k,v,q\n2020,826,251,270900,1,many\n", "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTradeFile(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseCountryCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"current release", "country_code,country_name,country_iso2,country_iso3\n826,United Kingdom,GB,GBR\n251,France,FR,FRA\n"},
		{"older release", "country_code,country_name_abbreviation,country_name_full,iso_2digit_alpha\n826,United Kingdom,United Kingdom of Great Britain,GB\n251,France,France,FR\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, err := ParseCountryCodes(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, codes, 2)
			assert.Contains(t, codes[826], "United Kingdom")
			assert.Equal(t, "France", codes[251])
		})
	}

	_, err := ParseCountryCodes(strings.NewReader("code,name\n1,x\n"))
	assert.Error(t, err)

	_, err = ParseCountryCodes(strings.NewReader("country_code,country_name\nGB,United Kingdom\n"))
	assert.Error(t, err)
}

func TestParseProductCodes(t *testing.T) {
	input := "code,description\n" +
		"010121,\"Horses: live, pure-bred breeding animals\"\n" +
		"270900,\"Petroleum oils: crude\"\n" +
		"10129,Horses: other\n"

	codes, err := ParseProductCodes(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, codes, 3)
	assert.Equal(t, "Horses: live, pure-bred breeding animals", codes["010121"])
	assert.Equal(t, "Horses: other", codes["010129"])

	_, err = ParseProductCodes(strings.NewReader("code,text\n1,x\n"))
	assert.Error(t, err)
}

func TestLoadCodeTables_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product_codes.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"code", "description"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"270900", "Petroleum oils: crude"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"10121", "Horses: live"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	codes, err := LoadProductCodes(path)
	require.NoError(t, err)
	assert.Equal(t, "Petroleum oils: crude", codes["270900"])
	assert.Equal(t, "Horses: live", codes["010121"])

	_, err = LoadCountryCodes(path)
	assert.Error(t, err, "a product table is not a country table")

	_, err = LoadCountryCodes(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestNormalizeProductCode(t *testing.T) {
	assert.Equal(t, "010121", NormalizeProductCode("10121"))
	assert.Equal(t, "010121", NormalizeProductCode(" 010121 "))
	assert.Equal(t, "270900", NormalizeProductCode("270900"))
	assert.Equal(t, "TOTAL", NormalizeProductCode("TOTAL"))
	assert.Equal(t, "", NormalizeProductCode("  "))
}
