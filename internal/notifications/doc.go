// Package notifications publishes end-of-run summaries to ntfy.
//
// A run produces exactly one notification, never one per label. When no
// topic is configured the service is a no-op, so callers never need to check
// whether notifications are enabled.
package notifications
