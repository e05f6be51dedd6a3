// Package client is the Session Channel: the network side of the session
// lifecycle.
//
// # Overview
//
// The Client interface wraps the operations the session machine needs
// (CheckSession, SubmitCredentials, EndSession) plus the protected dashboard
// calls (ListUsers, RandomImage). HTTPClient implements it over net/http.
//
// # Credentials
//
// The session credential is an HttpOnly cookie set by the backend. HTTPClient
// keeps it in an in-memory cookie jar and replays it on every request; no
// caller ever sees, logs or stores the token. EndSession drops the jar
// contents whatever the server answers.
//
// # Error Handling
//
// Outcomes are exposed as sentinel errors matched with errors.Is:
// ErrNoSession (401), ErrOriginRejected (403), ErrUnavailable (transport
// failure) and ErrMalformedResponse. Any other non-2xx answer is a
// *ServerError carrying the server's message verbatim.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
