// Package session owns everything one logged in user needs: the owner lane,
// the local directory, the identity registry, the update router, the query
// handler and the four managers built on top of them.
//
// There are no package level singletons; two sessions in one process share
// nothing but the transport and persistence they were given.
package session
