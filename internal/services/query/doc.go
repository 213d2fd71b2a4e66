// Package query looks clusters up by typed or scanned text and exports their
// device lists.
package query
