// Package notify models outbound mail delivery as an injected capability.
// The core never constructs a transport itself; it receives a Notifier once
// and calls it synchronously, surfacing delivery failures to the caller.
package notify

import "context"

// Notifier delivers a plain-text message to a single recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
