package notify

import (
	"context"
	"log/slog"
)

// LogNotifier implements Notifier by logging the payload. Swap in a
// real push provider without touching the event service.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Publish(ctx context.Context, title, body string, metadata map[string]string) error {
	n.Logger.Info("push notification published", "title", title, "body", body, "metadata", metadata)
	return nil
}
