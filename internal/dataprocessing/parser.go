package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "bacicli/internal/errors"
	"bacicli/pkg/contracts/domain"
)

// HS6 product codes are six digits; BACI stores them as integers, which drops
// the leading zero of chapters 01-09.
const hsCodeWidth = 6

var tradeColumns = []string{"t", "i", "j", "k", "v", "q"}

// ParseTradeFile reads one BACI trade file. Columns are located by header
// name, so their order does not matter. A blank or NA quantity is missing.
func ParseTradeFile(r io.Reader) ([]domain.RawTradeRow, error) {
	reader := newCSVReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewParsingError("trade file is empty", err)
		}
		return nil, apperrors.NewParsingError("failed to read trade file header", err)
	}

	columnMap := mapHeader(header)
	for _, col := range tradeColumns {
		if _, ok := columnMap[col]; !ok {
			return nil, apperrors.NewParsingError(fmt.Sprintf("trade file header is missing column %q", col), nil).
				WithContext("header", header)
		}
	}

	var rows []domain.RawTradeRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("malformed trade row at line %d", line), err)
		}
		if isBlankRow(record) {
			continue
		}

		row, err := parseTradeRow(record, columnMap)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid trade row at line %d", line), err).
				WithContext("line", line)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseTradeRow(record []string, columnMap map[string]int) (domain.RawTradeRow, error) {
	var row domain.RawTradeRow
	var err error

	if row.Year, err = parseIntCell(record, columnMap, "t"); err != nil {
		return row, err
	}
	if row.ExporterCode, err = parseIntCell(record, columnMap, "i"); err != nil {
		return row, err
	}
	if row.ImporterCode, err = parseIntCell(record, columnMap, "j"); err != nil {
		return row, err
	}

	row.ProductCode = NormalizeProductCode(cell(record, columnMap, "k"))
	if row.ProductCode == "" {
		return row, fmt.Errorf("column k: empty product code")
	}

	v := cell(record, columnMap, "v")
	if row.Value, err = strconv.ParseFloat(v, 64); err != nil {
		return row, fmt.Errorf("column v: %w", err)
	}

	row.Quantity = math.NaN()
	if q := cell(record, columnMap, "q"); !isMissing(q) {
		if row.Quantity, err = strconv.ParseFloat(q, 64); err != nil {
			return row, fmt.Errorf("column q: %w", err)
		}
	}

	return row, nil
}

// ParseCountryCodes reads a BACI country table into code -> name
func ParseCountryCodes(r io.Reader) (map[int]string, error) {
	rows, err := newCSVReader(r).ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read country codes", err)
	}
	return countryCodesFromRows(rows)
}

// ParseProductCodes reads a BACI product table into HS6 code -> description
func ParseProductCodes(r io.Reader) (map[string]string, error) {
	rows, err := newCSVReader(r).ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read product codes", err)
	}
	return productCodesFromRows(rows)
}

// LoadCountryCodes reads a country table from a .csv or .xlsx file
func LoadCountryCodes(path string) (map[int]string, error) {
	rows, err := readTableFile(path)
	if err != nil {
		return nil, err
	}
	codes, err := countryCodesFromRows(rows)
	if err != nil {
		return nil, addFileContext(err, path)
	}
	return codes, nil
}

// LoadProductCodes reads a product table from a .csv or .xlsx file
func LoadProductCodes(path string) (map[string]string, error) {
	rows, err := readTableFile(path)
	if err != nil {
		return nil, err
	}
	codes, err := productCodesFromRows(rows)
	if err != nil {
		return nil, addFileContext(err, path)
	}
	return codes, nil
}

// Releases have shipped the country name under different headers
var countryNameColumns = []string{"country_name", "country_name_full", "country_name_abbreviation"}

func countryCodesFromRows(rows [][]string) (map[int]string, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("country code table is empty", nil)
	}

	columnMap := mapHeader(rows[0])
	codeCol, ok := columnMap["country_code"]
	if !ok {
		return nil, apperrors.NewParsingError("country code table is missing column \"country_code\"", nil)
	}
	nameCol := -1
	for _, name := range countryNameColumns {
		if idx, ok := columnMap[name]; ok {
			nameCol = idx
			break
		}
	}
	if nameCol < 0 {
		return nil, apperrors.NewParsingError("country code table has no country name column", nil)
	}

	codes := make(map[int]string, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		raw := at(row, codeCol)
		code, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid country code %q at line %d", raw, i+2), err)
		}
		codes[code] = at(row, nameCol)
	}

	return codes, nil
}

func productCodesFromRows(rows [][]string) (map[string]string, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("product code table is empty", nil)
	}

	columnMap := mapHeader(rows[0])
	codeCol, ok := columnMap["code"]
	if !ok {
		return nil, apperrors.NewParsingError("product code table is missing column \"code\"", nil)
	}
	descCol, ok := columnMap["description"]
	if !ok {
		return nil, apperrors.NewParsingError("product code table is missing column \"description\"", nil)
	}

	codes := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		code := NormalizeProductCode(at(row, codeCol))
		if code == "" {
			continue
		}
		codes[code] = at(row, descCol)
	}

	return codes, nil
}

// NormalizeProductCode trims a product code and left-pads numeric codes to
// six digits so "10121" and "010121" join to the same description
func NormalizeProductCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code
		}
	}
	if len(code) < hsCodeWidth {
		code = strings.Repeat("0", hsCodeWidth-len(code)) + code
	}
	return code
}

// readTableFile returns all rows of a CSV file or of the first sheet of an
// Excel workbook
func readTableFile(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("file", path)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("file", path)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read workbook rows", err).WithContext("file", path)
		}
		return rows, nil

	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to open code table", err).WithContext("file", path)
		}
		defer file.Close()

		rows, err := newCSVReader(file).ReadAll()
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read code table", err).WithContext("file", path)
		}
		return rows, nil
	}
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	return reader
}

// mapHeader maps lower-cased, BOM-stripped header names to column indexes
func mapHeader(header []string) map[string]int {
	columnMap := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := columnMap[name]; !dup {
			columnMap[name] = i
		}
	}
	return columnMap
}

func cell(record []string, columnMap map[string]int, col string) string {
	return at(record, columnMap[col])
}

func at(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseIntCell(record []string, columnMap map[string]int, col string) (int, error) {
	raw := cell(record, columnMap, col)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

func isMissing(s string) bool {
	return s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN")
}

func isBlankRow(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func addFileContext(err error, path string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithContext("file", path)
	}
	return fmt.Errorf("%s: %w", path, err)
}

// TableKind names the three BACI file layouts
type TableKind string

const (
	TableTrade   TableKind = "trade"
	TableCountry TableKind = "country_codes"
	TableProduct TableKind = "product_codes"
)

// MissingColumns reports the columns the parser needs that header lacks.
// For the country table any one of the known name columns will do.
func MissingColumns(kind TableKind, header []string) []string {
	columnMap := mapHeader(header)
	var missing []string
	require := func(cols ...string) {
		for _, col := range cols {
			if _, ok := columnMap[col]; !ok {
				missing = append(missing, col)
			}
		}
	}

	switch kind {
	case TableTrade:
		require(tradeColumns...)
	case TableCountry:
		require("country_code")
		found := false
		for _, name := range countryNameColumns {
			if _, ok := columnMap[name]; ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, strings.Join(countryNameColumns, "|"))
		}
	case TableProduct:
		require("code", "description")
	}
	return missing
}

// ReadHeader reads the first record of a CSV stream
func ReadHeader(r io.Reader) ([]string, error) {
	reader := newCSVReader(r)
	reader.ReuseRecord = false
	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header", err)
	}
	return header, nil
}

// ReadFileHeader reads the header row of a .csv or .xlsx table
func ReadFileHeader(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err := readTableFile(path)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, apperrors.NewParsingError("table is empty", nil).WithContext("file", path)
		}
		return rows[0], nil
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to open table", err).WithContext("file", path)
		}
		defer file.Close()

		header, err := ReadHeader(file)
		if err != nil {
			return nil, addFileContext(err, path)
		}
		return header, nil
	}
}
