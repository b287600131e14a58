// Package apperr defines the error taxonomy shared by every manager.
//
// Each failure surfaced to a caller is an *Error carrying a Kind. Callers
// match on the kind with errors.Is against the sentinel values and use
// errors.As when they need the code or message.
//
// # Kinds
//
//   - Validation: malformed or out-of-range caller input, rejected before dispatch.
//   - NotFound: a referenced entity is not known locally.
//   - Permission: a capability check failed.
//   - Transport: the remote collaborator failed; code and message are kept verbatim.
//   - Protocol: the response did not have the expected shape.
//
// Validation, NotFound and Permission never reach the network. Transport and
// Protocol errors travel through the same promise as a successful result.
package apperr
