package remote

// Config holds configuration for the websocket transport.
type Config struct {
	// URL is the websocket endpoint of the remote service.
	URL string `mapstructure:"url" default:"ws://localhost:8443/api"`
	// HandshakeTimeoutSeconds bounds the websocket handshake.
	HandshakeTimeoutSeconds int `mapstructure:"handshake_timeout_seconds" default:"10"`
	// WriteTimeoutSeconds bounds writing a single frame.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"10"`
}
