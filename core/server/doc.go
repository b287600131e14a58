// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port and the API key checked by the
// auth middleware. It is embedded by core/config.
package server
