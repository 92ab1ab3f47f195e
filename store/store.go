package store

import (
	"context"
	"errors"

	"github.com/w-h-a/wingman/conversation"
)

var ErrNotFound = errors.New("conversation not found")

// Store persists conversations by session id. Append must keep turns in
// the order they were given.
type Store interface {
	Create(ctx context.Context, originalContent string) (string, error)
	Load(ctx context.Context, id string) (*conversation.Conversation, error)
	Append(ctx context.Context, id string, turns ...conversation.Turn) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}
