// Package books provides an HTTP client for the books REST API.
//
// # Overview
//
// The package is the only place bookshelf talks to the backend. It handles
// request construction, JSON (de)serialisation, CSRF token forwarding and
// error classification.
//
//   - client.go: Client and the API interface consumed by state and detail
//   - csrf.go: the session CSRF token provider
//   - types.go: Book, Draft and the response envelopes
//   - errors.go: APIError and the error kinds
//
// # Endpoints
//
//	GET    {base}/books        -> {"data": [Book]}
//	GET    {base}/books/{id}   -> Book
//	POST   {base}/books        -> {"data": [Book]}   (csrf-token header)
//	PUT    {base}/books/{id}   -> Book or listing    (csrf-token header)
//	DELETE {base}/books/{id}   -> ack                (csrf-token header)
//	GET    {base}/csrf-token   -> {"csrfToken": "..."}
//
// # Credentials
//
// The client owns a cookie jar, so the session cookie issued together with
// the CSRF token is replayed on every later request. Mutating requests also
// carry the token from CSRF().Token(). The token is fetched once; nothing in
// this package retries or refreshes it.
//
// # Errors
//
// Failed requests return *APIError. Match the kind with errors.Is:
//
//	_, err := client.GetBook(ctx, id)
//	switch {
//	case errors.Is(err, books.ErrNotFound):
//	case errors.Is(err, books.ErrValidation):
//		msg := books.Message(err) // backend message, verbatim
//	case errors.Is(err, books.ErrNetwork):
//	}
package books
