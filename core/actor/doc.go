// Package actor provides the single-owner execution model the managers run on.
//
// A Lane is one logical line of execution: tasks posted to it run one at a
// time, in the order they were posted, on a goroutine owned by the lane.
// Everything a manager owns (its entity tables, alias table, pending query
// bookkeeping) is only touched from tasks on its lane, so none of that state
// needs locking.
//
// Work that completes elsewhere, for example a response read by the
// transport goroutine, re-enters the owner with Lane.Post. Once the lane is
// closed Post refuses the task, which is how late completions for a torn-down
// owner are discarded.
//
// # Promises
//
// Promise is the caller-visible result slot of an asynchronous operation. It
// settles exactly once. Await blocks until it settles, the caller's context
// ends, or the owning lane closes; the last case returns ErrClosed without
// settling the promise.
//
// # Usage
//
//	lane := actor.NewLane("voicenotes", log)
//	defer lane.Close()
//
//	p := actor.Go(lane, func() (int, error) { return store.Len(), nil })
//	n, err := p.Await(ctx)
package actor
