// Package events provides the types and interfaces that decouple request
// handling from background task creation.
//
// Services emit a TaskRequestEvent when work should happen asynchronously,
// without knowing which handler will pick it up. Handlers subscribe through
// an EventEmitter and turn events into queued tasks. This keeps the service
// layer free of task-runner dependencies and avoids import cycles between
// the two.
//
// The primary components are:
// - TaskRequestEvent: a request to create a background task
// - EventHandler: implemented by components that consume events
// - EventEmitter: implemented by components that publish events
package events
