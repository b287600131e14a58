// Package updates is the UpdateDispatcher: it applies the state changes a
// remote response carries alongside its primary result.
//
// A query hands the embedded updates of a response to Dispatcher.Apply and
// only writes its own entity after Apply returns, so nobody can observe the
// new entity before the changes that produced it.
//
// Router is the dispatcher used by a session. Handlers are registered per
// update kind; a batch is applied in order and the first failing handler
// aborts it. Kinds without a handler are logged and skipped.
package updates
