// Package query is the QueryHandler: it runs one asynchronous remote
// operation on behalf of a manager and resolves the manager's promise.
//
// # Lifecycle
//
// Every invocation moves through
//
//	Idle -> Validating -> Dispatched -> Applying -> Resolved
//	                           \-> Failed -> Resolved
//
// Validation and the final commit run on the owner lane. The remote call,
// response parsing and embedded update application run off the lane, so the
// lane is never blocked on the network. Each re-entry onto the lane goes
// through Lane.Post; once the owner is closed the completion is dropped and
// the promise is left unsettled.
//
// # Errors
//
// Transport failures are surfaced with apperr.Transport and keep the remote
// message verbatim. A response that does not match the request, or that the
// query cannot parse, is an apperr.Protocol failure; the caller sees a
// generic message and the full response is logged.
//
// # Tracing
//
// Each dispatched invocation records an OpenTelemetry span named
// "query.<name>".
package query
