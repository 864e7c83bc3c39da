// Package sandbox is an in-memory development backend for the books REST
// API that bookshelf talks to.
//
// # Routes
//
//	GET    /csrf-token   {"csrfToken": "..."}; sets the bookshelf_session cookie
//	GET    /books        {"count": n, "data": [Book...]}
//	GET    /books/{id}   Book
//	POST   /books        201 {"count": n, "data": [Book...]}
//	PUT    /books/{id}   Book
//	DELETE /books/{id}   {"message": "Book deleted successfully"}
//
// Mutating routes need a csrf-token header holding a token issued for the
// caller's session cookie. Tokens are HS256 JWTs that expire after 15
// minutes. Errors are {"message": "..."} with 400, 403, 404, 429 or 500;
// validation failures add an "errors" list of {field, message}.
//
// # Middleware
//
// Requests pass through request id assignment (X-Request-Id), access
// logging, panic recovery, an optional per-client rate limit and optional
// latency injection, in that order.
//
// Nothing is persisted: every Server starts from its seed.
package sandbox
