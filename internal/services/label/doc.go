// Package label creates clusters on the cluster API and produces their QR
// labels.
//
// It validates operator input before any request is made, downloads QR
// images to disk and records every created cluster in the local journal. It
// also lints CSV batches locally so bad IMEIs can be fixed before upload.
package label
