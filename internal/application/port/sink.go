package port

import "context"

// Notifier delivers one rendered cycle to a downstream system (chat webhook, pub/sub channel).
type Notifier interface {
	Name() string
	Send(ctx context.Context, text string) error
}
