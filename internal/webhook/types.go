package webhook

// Config holds webhook server configuration.
type Config struct {
	Listen    string
	Endpoints []EndpointConfig
}

// EndpointConfig binds one receiver to a URL path.
type EndpointConfig struct {
	// Path is the URL prefix for this endpoint (e.g. "/hooks/facebook").
	// Requests may address a subscription as Path + "/{id}".
	Path string

	// Receiver is the configured receiver name, used for lookups in the
	// secret store and for the delivery record.
	Receiver string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64
}

// AcceptedResponse is the JSON response for a stored notification.
type AcceptedResponse struct {
	DeliveryID string `json:"delivery_id"`
}

// ErrorResponse is the JSON response for webhook errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DefaultMaxBodySize bounds request bodies when no per-endpoint limit is
// configured.
const DefaultMaxBodySize = 1048576 // 1 MB
