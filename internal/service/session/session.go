package session

import (
	"sync"
)

// session serializes follow-ups on one conversation.
type session struct {
	mtx sync.Mutex
}
