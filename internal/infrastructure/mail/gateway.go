package mail

import "context"

// Message is a transient outbound envelope. HTML body only, no attachments,
// no plaintext fallback.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	ReplyTo  string
	FromName string
}

// Gateway abstracts the email transport. Send reports delivery as a boolean
// and must never panic or propagate an error: a mail-provider outage is not
// allowed to destabilize the event pipeline or the request that fed it.
type Gateway interface {
	Send(ctx context.Context, msg Message) bool
}
