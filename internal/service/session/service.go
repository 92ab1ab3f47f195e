package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/store"
)

type Answerer interface {
	AskFollowUp(ctx context.Context, conv *conversation.Conversation, question string) (string, error)
}

// Service keeps follow-up conversations in a store. Asks on the same
// session run one at a time; different sessions run concurrently.
type Service struct {
	answerer Answerer
	store    store.Store
	sessions map[string]*session
	mtx      sync.Mutex
}

func (s *Service) CreateSession(ctx context.Context, originalContent string) (string, error) {
	if len(strings.TrimSpace(originalContent)) == 0 {
		return "", errors.New("original content is required")
	}

	id, err := s.store.Create(ctx, originalContent)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	s.lockFor(id)

	return id, nil
}

// Ask answers question within the session and persists the exchange.
// Nothing is persisted when the model call fails.
func (s *Service) Ask(ctx context.Context, id string, question string) (string, error) {
	sess := s.lockFor(id)

	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	conv, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.forget(id)
		return "", err
	}
	if err != nil {
		return "", err
	}

	before := conv.Len()

	reply, err := s.answerer.AskFollowUp(ctx, conv, question)
	if err != nil {
		return "", err
	}

	turns := conv.Turns()[before:]

	if err := s.store.Append(ctx, id, turns...); err != nil {
		slog.ErrorContext(ctx, "failed to persist follow-up", "session", id, "error", err)
		return "", fmt.Errorf("persist follow-up: %w", err)
	}

	return reply, nil
}

func (s *Service) Turns(ctx context.Context, id string) ([]conversation.Turn, error) {
	conv, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return conv.Turns(), nil
}

func (s *Service) ListSessionIds(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	sess := s.lockFor(id)

	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	err := s.store.Delete(ctx, id)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		s.forget(id)
	}

	return err
}

func (s *Service) forget(id string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.sessions, id)
}

func (s *Service) lockFor(id string) *session {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	sess := &session{}
	s.sessions[id] = sess

	return sess
}

func New(
	answerer Answerer,
	store store.Store,
) *Service {
	if answerer == nil {
		panic("answerer is required")
	}

	if store == nil {
		panic("store is required")
	}

	return &Service{
		answerer: answerer,
		store:    store,
		sessions: map[string]*session{},
		mtx:      sync.Mutex{},
	}
}
