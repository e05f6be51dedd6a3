// Package common holds the wire contract shared by the session client and the
// reference backend: endpoint paths, the session cookie name and the JSON
// bodies exchanged on those endpoints.
package common

// Endpoint paths, relative to the backend base URL.
const (
	PathCheckSession = "/api/checkUserSession"
	PathLogin        = "/api/login"
	PathRegister     = "/api/register"
	PathLogout       = "/api/logout"
	PathAllUsers     = "/api/getAllUsers"
	PathRandomImage  = "/api/getRandomImage"
)

// SessionCookieName is the HttpOnly cookie carrying the session credential.
// Client code never reads its value; the cookie jar replays it.
const SessionCookieName = "session_token"

// Form field names used by the login and register submissions.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)
