// Package http implements the HTTP transport for the hydrograph query
// service. Handlers are thin: they validate the request, delegate to
// the hydrograph cache, and render JSON or RFC 7807 problem responses.
package http
