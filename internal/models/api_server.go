package models

// APIServer represents the public HTTP surface of the platform.
type APIServer interface {
	// Start starts the server and blocks until it stops.
	Start()
	// Shutdown gracefully shuts the server down.
	Shutdown() error
}
