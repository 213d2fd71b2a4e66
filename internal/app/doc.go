// Package app wires application dependencies for the CLI.
//
// It loads Config from flags, environment and an optional config file, then
// builds the concrete API client, journal store and services, exposing them
// via the Wire struct for commands to use.
package app
