// Package events provides a small in-process publish/subscribe layer.
//
// Services emit Events after a state change succeeds without knowing which
// handlers consume them: cart mutations, catalog writes and token
// revocations. Handlers subscribe to every type or to a chosen few.
// AuditLogHandler records each event as one log line.
package events
