package common

// AccessTokenCookieName is the cookie carrying the session JWT between the
// HTTP API and its clients.
const AccessTokenCookieName = "access_token"

// RequestIDHeader is set by clients on every call and echoed by the server.
const RequestIDHeader = "X-Request-ID"
