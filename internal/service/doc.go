// Package service provides application-level services for quote generation,
// favorites, the quote of the day, and user accounts. Services orchestrate
// domain objects, stores, and external clients; handlers and background
// tasks call services rather than stores directly.
package service
