// Package shared holds helpers used across the trade report packages that
// belong to no single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and BACI fixture builders that write trade files and code
// tables into a test directory:
//
//	func TestLoader(t *testing.T) {
//	    fx := testutil.NewBACIFixture(t)
//	    fx.UKTradeYears(t, 2015, 6)
//	    loader := dataprocessing.NewLoader(nil, dataprocessing.LoaderConfig{InputDir: fx.Dir, ...})
//	}
package shared
