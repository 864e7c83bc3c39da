// Package notify holds the transient notification flags shown after a book
// mutation.
//
// # Kinds
//
// There is one flag per operation and outcome:
//
//	save   (create)  SaveSucceeded   SaveFailed
//	edit   (update)  EditSucceeded   EditFailed
//	delete           DeleteSucceeded DeleteFailed
//
// Failure flags carry the message to display. Success flags usually carry
// none; the UI supplies fixed texts for them.
//
// # Expiry
//
// Set raises a flag and arms a timer for the board's TTL (DefaultTTL, three
// seconds). Setting the same kind again before the timer fires stops the old
// timer and starts a new one, so the flag stays up for a full TTL after the
// latest Set. Each armed timer carries a generation number; a callback whose
// generation is stale is ignored, which covers the case where Stop loses the
// race against a timer that already fired.
//
// Kinds never share timers. Clearing or expiring one kind leaves the others
// untouched.
//
// # Concurrency
//
// Board is safe for concurrent use. Timer callbacks run on their own
// goroutines and take the board's mutex; readers use Active or Snapshot.
// Call Stop at shutdown to cancel pending timers.
package notify
