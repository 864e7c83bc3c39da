// Package logtail reads the end of the client log for the activity view.
//
// # Reading
//
// Read returns the last maxLines of a file using a ring buffer of maxLines
// entries, so memory stays O(maxLines) regardless of file size:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line: store at idx, advance idx (wrapping)
//	3. Fewer than maxLines seen: return the first count entries
//	4. Otherwise: return the buffer starting at idx (oldest line)
//
// A missing file is not an error; the activity view simply shows nothing
// until the first line is logged.
//
// # Parsing
//
// bookshelf logs with the standard library logger and log.LstdFlags, so each
// line starts with "2006/01/02 15:04:05 ". Parse splits that prefix from the
// message and infers a Level from the message text ("failed" and "error"
// mean LevelError). The UI picks colors from the Level.
package logtail
