// Package report summarizes a cluster's devices and exports them as the CSV
// spreadsheet operators open in Excel: UTF-8 with BOM, semicolon separated.
package report
