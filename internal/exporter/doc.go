// Package exporter serializes Dataset values and insight reports for
// download.
//
// Three dataset formats are supported: CSV (optionally with a UTF-8 BOM
// for Excel compatibility), indented JSON with export metadata, and XLSX
// workbooks. Insight reports additionally export as a sectioned CSV
// document. All exporters render into memory; callers decide where the
// bytes go.
package exporter
