// Package codec is the binary encoding used for transport frames and for
// blobs handed to the persistence collaborator.
//
// It wraps fxamacker/cbor with Core Deterministic Encoding so the same logical
// value always produces identical bytes, which keeps persisted blobs stable
// across saves of unchanged state.
package codec
