package ai

import "context"

// Client drafts text from a system and user prompt and returns the raw JSON reply.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
