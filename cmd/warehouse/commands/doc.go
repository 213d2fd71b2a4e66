// Package commands defines the warehouse CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - validate   Check IMEIs given as arguments or in a CSV file
//   - create     Create a cluster from one or more IMEIs
//   - qr         Download a cluster's QR label as PNG
//   - import     Upload a CSV or ZIP batch as a new cluster
//   - query      Look clusters up by ID or scanned QR text and summarize them
//   - history    List clusters created from this machine
//
// # Configuration
//
// Persistent flags are bound to viper keys; each may also be set through a
// WAREHOUSE_* environment variable or $home/config.yaml. See internal/app.
//
// # Implementation
//
// The root command loads the configuration, builds the logger and the
// dependency graph (HTTP client, API client, journal, services) before any
// subcommand runs. validate is the only command that works offline; it still
// goes through the same setup.
package commands
