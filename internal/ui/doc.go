// Package ui provides the terminal user interface for bookshelf.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns only presentation state; the
// book collection, the dialog controller and the notification board are
// shared objects guarded by their own locks. Every tick (250ms by default)
// the model copies their snapshots, so results of background requests and
// expiring notifications show up without extra plumbing.
//
// Backend calls never run on the Bubble Tea goroutine. Key handlers start
// them as tea.Cmds through runOp, and the opDoneMsg they return only
// triggers a re-sync: the controller and store have already applied the
// result by then.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, global key handling and commands
//   - books.go: Books table, selection tracking and the titled box
//   - dialog.go: View, edit, create and delete dialogs driven by detail.Controller
//   - activity.go: Tail of the bookshelf log file
//   - header.go: Status bar, command bar and notification toasts
//   - help.go: Help overlay and modal placement
//   - keys.go, theme.go: Key bindings and color themes
//
// # Views
//
//   - Books: Table of all books with number, title, author and publish year
//   - Activity: The last lines of the log file, colored by severity
//
// Dialogs are overlays on top of the books view. While one is open it takes
// every key except ctrl+c.
//
// # Key Bindings
//
//   - a: Add a book
//   - enter/v: View the selected book
//   - e: Edit the selected book
//   - d: Delete the selected book
//   - E: Reopen the last edit that failed to save
//   - r: Refresh the collection
//   - l: Toggle the activity view
//   - T: Cycle theme
//   - h/?: Help
//   - ctrl+c: Exit
package ui
