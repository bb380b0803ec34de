// Package dataprocessing turns BACI input files into the trade tables the
// analytics step consumes.
//
// # Architecture
//
// The package covers the first stages of the report pipeline:
//
// 1. Parser: reads trade files (columns t,i,j,k,v,q) and the country and
// product code tables, from CSV or, for code tables, Excel workbooks
// 2. Loader: discovers the inputs and parses trade files concurrently
// 3. Normalizer: decodes codes to names, truncates product descriptions at
// the first colon, merges configured product families and re-aggregates
// 4. Slicer: splits the table into the focus country's export and import views
// 5. Aggregation: yearly totals, per-entity series, ranking and shares
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{
//	    InputDir:            paths.InputDir,
//	    TradeFilePattern:    "BACI_*_Y*_V*.csv",
//	    CountryCodesPattern: "country_codes_V*.csv",
//	    ProductCodesPattern: "product_codes_*_V*.csv",
//	    FileLimit:           29,
//	    Workers:             4,
//	})
//	ds, err := loader.Load(ctx)
//
//	normalizer := dataprocessing.NewNormalizer(logger, []dataprocessing.CategoryMerge{
//	    {Pattern: "petroleum", Label: "Petroleum Products"},
//	})
//	records, stats := normalizer.Normalize(ctx, ds.Rows, ds.Countries, ds.Products)
//	views := dataprocessing.Slice(records, "United Kingdom")
//	series := dataprocessing.SeriesForKind(views, domain.KindExportPartner)
//	top := dataprocessing.TopN(series, 10)
//
// # Error Handling
//
// Parse failures are AppErrors of type PARSING carrying the file and line.
// Codes missing from the code tables are not errors: the affected names are
// left empty and counted in NormalizeStats.
package dataprocessing
