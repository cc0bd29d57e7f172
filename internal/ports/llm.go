package ports

import "context"

// Message is one role-tagged entry in a chat completion request. Order in the
// slice is the order the remote model sees.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatClient is the single relay primitive: it sends one message list and
// returns the first choice's content. The interpretation flow calls it
// several times per session, strictly one call at a time.
type ChatClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
