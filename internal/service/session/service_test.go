package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/store"
	"github.com/w-h-a/wingman/store/memory"
)

type fakeAnswerer struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	fail     error
}

func (f *fakeAnswerer) AskFollowUp(ctx context.Context, conv *conversation.Conversation, question string) (string, error) {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.inFlight.Add(-1)

	time.Sleep(2 * time.Millisecond)

	if f.fail != nil {
		return "", f.fail
	}

	reply := "re: " + question
	conv.Exchange(question, reply)

	return reply, nil
}

func TestAsk(t *testing.T) {
	ctx := context.Background()
	svc := New(&fakeAnswerer{}, memory.NewStore())

	id, err := svc.CreateSession(ctx, "Two Sum")
	require.NoError(t, err)

	reply, err := svc.Ask(ctx, id, "why a map?")
	require.NoError(t, err)
	assert.Equal(t, "re: why a map?", reply)

	_, err = svc.Ask(ctx, id, "and sorting?")
	require.NoError(t, err)

	turns, err := svc.Turns(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []conversation.Turn{
		{Role: conversation.RoleUser, Content: "why a map?"},
		{Role: conversation.RoleAssistant, Content: "re: why a map?"},
		{Role: conversation.RoleUser, Content: "and sorting?"},
		{Role: conversation.RoleAssistant, Content: "re: and sorting?"},
	}, turns)
}

func TestAsk_FailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc := New(&fakeAnswerer{fail: errors.New("both attempts failed")}, memory.NewStore())

	id, err := svc.CreateSession(ctx, "Two Sum")
	require.NoError(t, err)

	_, err = svc.Ask(ctx, id, "why a map?")
	require.Error(t, err)

	turns, err := svc.Turns(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAsk_UnknownSession(t *testing.T) {
	svc := New(&fakeAnswerer{}, memory.NewStore())

	_, err := svc.Ask(context.Background(), "missing", "hello?")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, svc.sessions)
}

func TestAsk_SerializedPerSession(t *testing.T) {
	ctx := context.Background()
	answerer := &fakeAnswerer{}
	svc := New(answerer, memory.NewStore())

	id, err := svc.CreateSession(ctx, "shared")
	require.NoError(t, err)

	const n = 8

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ask(ctx, id, fmt.Sprintf("q%d", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, answerer.overlap.Load())

	turns, err := svc.Turns(ctx, id)
	require.NoError(t, err)
	require.Len(t, turns, 2*n)

	for i := 0; i < len(turns); i += 2 {
		assert.Equal(t, conversation.RoleUser, turns[i].Role)
		assert.Equal(t, conversation.RoleAssistant, turns[i+1].Role)
		assert.Equal(t, "re: "+turns[i].Content, turns[i+1].Content)
	}
}

func TestCreateSession_RequiresContent(t *testing.T) {
	svc := New(&fakeAnswerer{}, memory.NewStore())

	_, err := svc.CreateSession(context.Background(), "  ")
	assert.Error(t, err)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := New(&fakeAnswerer{}, memory.NewStore())

	id, err := svc.CreateSession(ctx, "a")
	require.NoError(t, err)

	ids, err := svc.ListSessionIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	require.NoError(t, svc.DeleteSession(ctx, id))
	assert.ErrorIs(t, svc.DeleteSession(ctx, id), store.ErrNotFound)

	ids, err = svc.ListSessionIds(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
