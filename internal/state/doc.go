// Package state holds the book collection shared between the refresh
// commands and the UI.
//
// # Overview
//
// Store keeps the last successfully fetched collection together with the
// bookkeeping the header needs: whether a refresh is in flight, when the
// last attempt finished, the last error, and how many attempts in a row
// failed.
//
//	Refresh command:               UI:
//	┌────────────────┐            ┌─────────────────┐
//	│ ListBooks()    │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	└────────────────┘  (mutex)   │      ↓          │
//	                              │  render table   │
//	                              └─────────────────┘
//
// # Refresh Semantics
//
//	// Success: replace the collection wholesale
//	store.Refresh(ctx)
//	→ snapshot.Books = <fetched list>
//	→ snapshot.LastError = nil
//
//	// Failure: keep old data, record error
//	store.Refresh(ctx)
//	→ snapshot.Books = <unchanged>
//	→ snapshot.LastError = err
//
// Refreshes may overlap. Loading is derived from a counter of in-flight
// calls, so it stays true until the last one returns. Results are applied in
// the order they resolve; the last to resolve wins.
//
// # Copying
//
// Update and Snapshot clone the slice and the error so the UI never shares
// memory with the store.
//
// # Testing
//
// The zero Store is usable for Update and Snapshot. Refresh needs a Lister,
// supplied through NewStore.
package state
