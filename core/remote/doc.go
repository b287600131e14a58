// Package remote is the boundary to the remote protocol service.
//
// Client is the RemoteProtocolClient every query goes through: Send delivers
// one Request, identified by a caller-chosen token, and returns the matching
// Response or the error that ended the call. Send may block for as long as
// the round-trip takes; callers run it off their owner lane.
//
// # Websocket transport
//
// WebsocketClient multiplexes calls over one websocket connection. Each call
// is a binary frame holding the CBOR-encoded token, method and parameters.
// A reader goroutine matches reply frames to pending calls by token, so
// replies may arrive in any order relative to the requests. Server errors
// come back as *Error, which keeps the code and message verbatim.
//
// Reconnection and retry are not handled here: a broken connection fails
// every pending call and the owner decides what to do next.
package remote
