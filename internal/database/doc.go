// Package database provides SQLite-based storage for notice generation history.
//
// Each saved run records the project name, the time of generation, the
// summary counts and the full license classification as JSON. Two runs of
// the same project can later be loaded and compared.
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the history is a
// single file and the binary cross-compiles without a C toolchain.
package database
