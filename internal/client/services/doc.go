// Package services contains the application services of the job portal CLI.
// Each service sits between a REPL command and the HTTP client and keeps the
// session store in step with what the server reports.
package services
