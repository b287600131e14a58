// Package wire holds the remote service's schema as plain structs.
//
// Every polymorphic object carries its constructor name in a Type field; the
// set of constructors each field may hold is listed next to the type. The
// byte encoding of these values is the transport's business (see
// core/remote), this package only fixes their shape.
package wire
