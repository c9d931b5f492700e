// Package notifications delivers fire-and-forget events to downstream
// consumers. Delivery is at-most-once: no acknowledgment, no retry, and a
// slow or broken transport never blocks the caller.
package notifications

import "context"

// Sink publishes an event on a topic. Implementations must not block
// indefinitely; callers ignore delivery failures.
type Sink interface {
	Publish(ctx context.Context, topic string, payload any) error
}
