package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"bacicli/pkg/contracts/domain"
)

// Country codes used by the fixtures, taken from the BACI country table
const (
	CodeFrance        = 251
	CodeGermany       = 276
	CodeUnitedKingdom = 826
	CodeUSA           = 842
	CodeChina         = 156
	CodeNorway        = 579
)

// FixtureCountries is a trimmed BACI country table
var FixtureCountries = map[int]string{
	CodeFrance:        "France",
	CodeGermany:       "Germany",
	CodeUnitedKingdom: "United Kingdom",
	CodeUSA:           "USA",
	CodeChina:         "China",
	CodeNorway:        "Norway",
}

// FixtureProducts is a trimmed BACI product table; descriptions keep the
// colon suffixes of the real file
var FixtureProducts = map[string]string{
	"270900": "Petroleum oils and oils obtained from bituminous minerals: crude",
	"271012": "Petroleum oils, not crude: light oils and preparations",
	"271019": "Petroleum oils, not crude: medium and heavy oils",
	"870323": "Vehicles: spark-ignition engine of a cylinder capacity over 1500cc",
	"300490": "Medicaments: n.e.c. in item no. 3004",
	"010121": "Horses: live, pure-bred breeding animals",
}

// TradeRow builds a raw row with a reported quantity
func TradeRow(year, exporter, importer int, product string, value, quantity float64) domain.RawTradeRow {
	return domain.RawTradeRow{
		Year:         year,
		ExporterCode: exporter,
		ImporterCode: importer,
		ProductCode:  product,
		Value:        value,
		Quantity:     quantity,
	}
}

// Record builds a normalized trade record without a quantity
func Record(year int, exporter, importer, product string, value float64) domain.TradeRecord {
	return domain.TradeRecord{
		Year:     year,
		Exporter: exporter,
		Importer: importer,
		Product:  product,
		Value:    value,
		Quantity: math.NaN(),
	}
}

// BACIFixture writes a BACI-shaped input directory: one trade file per year
// plus both code tables
type BACIFixture struct {
	Dir     string
	Release string
}

// NewBACIFixture creates an empty fixture directory under t.TempDir()
func NewBACIFixture(t *testing.T) *BACIFixture {
	t.Helper()
	return &BACIFixture{Dir: t.TempDir(), Release: "V202401"}
}

// WriteTradeFile writes the rows of one year in BACI column order
func (f *BACIFixture) WriteTradeFile(t *testing.T, year int, rows []domain.RawTradeRow) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("t,i,j,k,v,q\n")
	for _, r := range rows {
		q := "NA"
		if !math.IsNaN(r.Quantity) {
			q = fmt.Sprintf("%g", r.Quantity)
		}
		// BACI drops the leading zero of HS chapters 01-09
		code := strings.TrimLeft(r.ProductCode, "0")
		fmt.Fprintf(&b, "%d,%d,%d,%s,%g,%s\n", r.Year, r.ExporterCode, r.ImporterCode, code, r.Value, q)
	}

	name := fmt.Sprintf("BACI_HS92_Y%d_%s.csv", year, f.Release)
	return f.write(t, name, b.String())
}

// WriteCountryCodes writes a country table in the V202401 layout
func (f *BACIFixture) WriteCountryCodes(t *testing.T, countries map[int]string) string {
	t.Helper()

	codes := make([]int, 0, len(countries))
	for c := range countries {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	var b strings.Builder
	b.WriteString("country_code,country_name,country_iso2,country_iso3\n")
	for _, c := range codes {
		fmt.Fprintf(&b, "%d,%q,XX,XXX\n", c, countries[c])
	}
	return f.write(t, fmt.Sprintf("country_codes_%s.csv", f.Release), b.String())
}

// WriteProductCodes writes a product table with quoted descriptions
func (f *BACIFixture) WriteProductCodes(t *testing.T, products map[string]string) string {
	t.Helper()

	codes := make([]string, 0, len(products))
	for c := range products {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString("code,description\n")
	for _, c := range codes {
		fmt.Fprintf(&b, "%s,%q\n", c, products[c])
	}
	return f.write(t, fmt.Sprintf("product_codes_HS92_%s.csv", f.Release), b.String())
}

// WriteDefaultTables writes FixtureCountries and FixtureProducts
func (f *BACIFixture) WriteDefaultTables(t *testing.T) {
	t.Helper()
	f.WriteCountryCodes(t, FixtureCountries)
	f.WriteProductCodes(t, FixtureProducts)
}

func (f *BACIFixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// UKTradeYears writes a multi-year UK trade history with distinct partner
// and product trajectories, enough for four clusters per kind
func (f *BACIFixture) UKTradeYears(t *testing.T, firstYear, years int) {
	t.Helper()
	f.WriteDefaultTables(t)

	partners := []int{CodeFrance, CodeGermany, CodeUSA, CodeChina, CodeNorway}
	products := []string{"270900", "271012", "271019", "870323", "300490", "010121"}

	for y := 0; y < years; y++ {
		year := firstYear + y
		var rows []domain.RawTradeRow
		for pi, p := range partners {
			for ki, k := range products {
				base := float64((pi+1)*100 + (ki+1)*10)
				// each pair gets its own growth shape so series are not collinear
				growth := float64(y) * float64((pi+ki)%4+1) * 7
				if (pi+ki)%3 == 0 {
					growth = -growth / 3
				}
				exp := base + growth + float64(y*y*(ki%2))
				imp := base*0.8 + float64(y)*float64((pi*ki)%5+1)*5
				rows = append(rows,
					TradeRow(year, CodeUnitedKingdom, p, k, exp, float64(10*(ki+1))),
					TradeRow(year, p, CodeUnitedKingdom, k, imp, math.NaN()),
				)
			}
		}
		f.WriteTradeFile(t, year, rows)
	}
}
