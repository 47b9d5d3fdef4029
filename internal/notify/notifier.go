// Package notify publishes push notifications to the public client.
// Delivery is best-effort: the event lifecycle never fails because a
// notification could not be sent.
package notify

import "context"

type Notifier interface {
	Publish(ctx context.Context, title, body string, metadata map[string]string) error
}
