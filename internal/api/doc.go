// Package api provides an HTTP implementation of the domain.ClusterAPI
// interface used by the warehouse client.
//
// The cluster API owns all labeling state: it stores clusters, maps IMEIs to
// device records, ingests CSV batches and renders QR labels. This package is
// a thin client for it.
//
// Supported operations:
//   - Creating a cluster from a list of IMEIs.
//   - Downloading a cluster's QR code as PNG.
//   - Uploading a CSV (or ZIP) batch for server-side processing.
//   - Fetching a cluster with its per-IMEI details.
//
// QR requests may go to a separate base URL. Every request carries a context
// for cancellation and deadlines. Non-2xx statuses are returned as
// *StatusError with the HTTP method, full URL, status and the server's
// message to aid diagnostics.
package api
