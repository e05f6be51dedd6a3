// Package cli provides the interactive session client.
//
// It wires configuration, the HTTP session channel, the session state machine
// and the route guard behind a small REPL. Screens ("views") are addressed by
// path like the pages of a web app: "/" is home, "/login" and "/register" are
// the forms, "/dashboard" is protected.
//
// Typical flow: the app starts on the dashboard, the guard waits while the
// stored session is checked, then either shows the dashboard or sends the
// user home to log in.
//
// Key features:
//   - Login / Register with inline field validation
//   - Logout that always clears the local session
//   - Protected dashboard with the user list and a random image download
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
