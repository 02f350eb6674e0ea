// Package api implements the HTTP API and WebSocket event stream of the
// EMS gateway.
//
// This package provides:
//   - GET and POST /api/<device>/<command> routed through the gateway service
//   - command listings, command history and a health endpoint under /api/v1
//   - JWT authentication, with single-use tickets for WebSocket connections
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Authorisation
//
// A request without a bearer token runs as a non-admin caller, so read-only
// commands keep working for anonymous clients. A request carrying an invalid
// token is rejected with 401. Admin tokens are issued by POST /api/v1/auth/login
// for the single administrator configured under security.admin.
//
// # Responses
//
// Command results are written with the HTTP status mapped from the dispatcher
// return code. An output carrying only "api_data" is written as text/plain.
package api
