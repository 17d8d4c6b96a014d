// Package notify delivers pipeline event notifications to the view layer.
//
// Core types:
//   - Notifier: Interface for sending notifications
//   - Event: Notification event with type, stage, message, and metadata
//   - EventType: Type of event (run lifecycle, capture error, persisted record)
//
// Implementations:
//   - LogNotifier: Logs notifications via slog
//   - WebhookNotifier: Posts notifications to an HTTP webhook
//   - MultiNotifier: Fans out to multiple notifiers
//   - NopNotifier: Discards all notifications
package notify
