// Command mockapi runs the in-memory cluster API used by warehouse during
// development. See package internal/mockapi for the HTTP surface.
//
//	mockapi --addr :8000 --public-url https://labels.example
//
// Logs are JSON on stderr. SIGINT or SIGTERM drain in-flight requests before
// exiting.
package main
