// Package observability builds the zap logger and the request logging
// middleware. Every access log line carries the chi request ID.
package observability
