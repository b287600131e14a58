// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header. An empty key
//     disables the check.
//   - rayid: tags every request with a ray id, stored in the ray_id local
//     and echoed in the X-Ray-ID response header. logger.WithRayID picks it
//     up.
package middleware
