// Package cli provides the interactive job portal command-line client.
//
// It wires configuration, the local state database, the HTTP client, the
// session store and the services into a REPL. Every command is bound to a
// route; protected routes mount a session verifier and render only when
// their guard grants access.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
