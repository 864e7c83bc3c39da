// Package detail implements the dialog state machine for a single book.
//
// A Controller owns the working copy: the book fetched for the view, edit or
// delete dialog, or the empty form of the create dialog.
//
//	        Open(id, mode)
//	Idle ─────────────────→ Loading ──fail──→ Failed
//	 ↑ ↑                      │                 │
//	 │ │         view/edit/delete               │ Close / Open
//	 │ │                      ↓                 ↓
//	 │ │   Loaded ──BeginEdit──→ Editing ──SubmitEdit──→ Idle
//	 │ │     └────BeginDelete──→ ConfirmingDelete ──ConfirmDelete──→ Idle
//	 │ └── BeginCreate → Creating ──SubmitCreate──→ Idle
//	 └──────────────── Close (any phase)
//
// Submit and confirm calls end in Idle whether the request succeeds or not.
// Success raises the matching success notification and refreshes the
// collection; failure raises the matching failure notification with the
// backend message, or a fixed default when the backend sent none. A failed
// edit keeps its draft so ResumeEdit can reopen the form.
//
// Saving is true exactly while a mutating request is outstanding. Operations
// that do not fit the current phase return ErrInvalidTransition without side
// effects.
//
// Closing a dialog does not cancel its request. The request's notification
// and refresh still happen, but its result never overwrites a working copy
// opened after it.
package detail
