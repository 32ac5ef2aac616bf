// Package server turns errors raised inside gin handlers into HTTP responses.
//
// Handlers attach errors with c.Error(err). The Errors middleware normalizes
// the last one, routes it through a dispatch.Dispatcher for side effects and
// then writes a JSON body unless a handler already responded:
//
//	{"statusCode": 404, "statusMessage": "Not Found", "message": "...", "data": ...}
//
// Routes can register per-request handlers with OnError; they override the
// dispatcher's base set for that request only.
//
// Server wraps the gin engine in an http.Server with graceful shutdown. Panic
// recovery and request logging live in the middleware subpackage.
package server
