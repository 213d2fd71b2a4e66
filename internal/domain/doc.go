// Package domain defines the core data models and interfaces shared across
// the warehouse client. It contains plain types (wire/state) and contracts
// (interfaces) only.
package domain
