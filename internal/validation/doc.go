// Package validation checks operator input before it is sent to the cluster
// API. It wraps go-playground/validator with the custom tags the warehouse
// domain needs (imei, notblank) and turns validator errors into one readable
// message per failing field.
package validation
