// Package forumtopic creates topics in forum supergroups.
//
// Creation is validated against the local directory before anything is
// sent: the chat must be a known forum, the current user must be allowed to
// create topics in it and the title must survive cleaning. The created
// topic is taken from the service message the server returns, located by
// the random id sent with the request.
package forumtopic
