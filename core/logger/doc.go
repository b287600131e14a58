// Package logger provides a structured logging facility based on Zap.
//
// The debug level selects zap's development config, every other level the
// production one. Format chooses json or colored console output.
//
// # Context Awareness
//
// WithRayID extracts the ray id stored by the rayid middleware and attaches
// it to the logger, so every line of one request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
