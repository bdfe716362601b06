// Package http contains the HTTP transport layer: chi routers, request
// handlers and the middleware stack wiring.
//
// Handlers follow a consistent pattern. Each handler owns a Routes() method
// returning a chi.Router, decodes and validates its request types, delegates
// to the service layer, and renders either a success envelope
// ({"status":"success","data":...}) or an error envelope built from
// internal/errors.
package http
