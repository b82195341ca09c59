// Package api provides the HTTP handlers, request/response models, and
// error mapping for the public REST surface. Handlers translate between
// the wire format and the service layer, never touching stores directly.
package api
