// Package client contains the CLI's building blocks for talking to the job
// portal backend.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface): session
//     calls (Me, VerifySession, Login, Logout), jobs, applications, plans and
//     payment initiation.
//  2. A concrete HTTP implementation (see HTTPClient) that keeps the session
//     cookie in a jar, tags every request with an X-Request-ID, and maps
//     HTTP statuses onto sentinel errors.
//  3. A PersistentJar that mirrors the session cookie into the local
//     metadata store so a restart keeps the user signed in.
//  4. A HealthChecker that probes the server's gRPC health service.
//  5. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and the embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses become *APIError values that unwrap to ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrConflict, ErrBadRequest or ErrServer.
// Transport failures and gateway statuses (502, 503, 504) unwrap to
// ErrUnavailable.
package client
