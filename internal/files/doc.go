// Package files provides file system operations and discovery utilities
// for the trade report.
//
// Discovery locates BACI inputs: the yearly trade files (sorted by name and
// capped at a configured count) and the country and product code tables.
//
// Manager writes report artifacts atomically into the output tree. Relative
// paths prefixed with charts/, tables/, graphs/, logs/ or input/ resolve
// into the matching configured directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.InputDir)
//	trade, err := discovery.FindTradeFiles(".", cfg.Paths.TradeFilePattern, 29)
//
//	manager := files.NewManager(paths)
//	err = manager.WriteFile("graphs/export_partner.dot", dot)
package files
