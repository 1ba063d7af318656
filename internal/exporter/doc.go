// Package exporter writes analysis results to CSV files and Excel
// workbooks. CSV output is UTF-8 with an optional BOM so files open
// cleanly in Excel; Excel output uses one worksheet per budget
// location.
package exporter
