package ports

// Frontend defines the interface for a request-serving surface (HTTP API or
// SMTP tagging proxy) in front of the categorizer service
type Frontend interface {
	// Start starts serving requests; it must not block
	Start() error

	// Stop shuts the frontend down
	Stop() error
}
