package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/store"
)

type record struct {
	originalContent string
	turns           []conversation.Turn
	createdAt       time.Time
}

type memoryStore struct {
	options store.Options
	records map[string]*record
	mtx     sync.RWMutex
}

func (s *memoryStore) Create(ctx context.Context, originalContent string) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := uuid.New().String()

	s.records[id] = &record{
		originalContent: originalContent,
		createdAt:       time.Now().UTC(),
	}

	return id, nil
}

func (s *memoryStore) Load(ctx context.Context, id string) (*conversation.Conversation, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	return conversation.New(rec.originalContent, rec.turns...)
}

func (s *memoryStore) Append(ctx context.Context, id string, turns ...conversation.Turn) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	for i, turn := range turns {
		if !turn.Role.Valid() {
			return fmt.Errorf("turn %d: invalid role %q", i, turn.Role)
		}
	}

	rec.turns = append(rec.turns, turns...)

	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	delete(s.records, id)

	return nil
}

// List returns ids oldest first.
func (s *memoryStore) List(ctx context.Context) ([]string, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := s.records[ids[i]], s.records[ids[j]]
		if a.createdAt.Equal(b.createdAt) {
			return ids[i] < ids[j]
		}
		return a.createdAt.Before(b.createdAt)
	})

	return ids, nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		records: map[string]*record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
