package wingman

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/wingman/config"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/generator"
	"github.com/w-h-a/wingman/invoker"
)

type scriptedGenerator struct {
	mtx       sync.Mutex
	grounding []bool
	prompts   [][]content.Part
	respond   func(grounding bool) (string, error)
}

func (g *scriptedGenerator) Generate(ctx context.Context, parts []content.Part, opts ...generator.GenerateOption) (string, error) {
	options := generator.NewGenerateOptions(opts...)

	g.mtx.Lock()
	g.grounding = append(g.grounding, options.Grounding)
	g.prompts = append(g.prompts, parts)
	g.mtx.Unlock()

	return g.respond(options.Grounding)
}

func TestNew_RequiresApiKey(t *testing.T) {
	_, err := New(config.Config{Provider: config.ProviderGoogle})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestExtractThenSolve(t *testing.T) {
	dir := t.TempDir()
	shot := filepath.Join(dir, "screen.png")
	require.NoError(t, os.WriteFile(shot, []byte("png"), 0o600))

	gen := &scriptedGenerator{respond: func(grounding bool) (string, error) {
		if grounding {
			return "", generator.ErrGroundingUnsupported
		}
		return `{"problem_statement": "FizzBuzz", "solution": {"code": "for i in range(1, 101): ..."}}`, nil
	}}

	w, err := New(config.Config{Grounding: true}, WithGenerator(gen))
	require.NoError(t, err)
	defer w.Close()

	ctx := context.Background()

	problem, err := w.ExtractProblem(ctx, []string{shot})
	require.NoError(t, err)
	assert.Equal(t, "FizzBuzz", problem.ProblemStatement)

	solution, err := w.GenerateSolution(ctx, problem)
	require.NoError(t, err)
	assert.Equal(t, "for i in range(1, 101): ...", solution.Code)

	assert.Equal(t, []bool{true, false, true, false}, gen.grounding)
	assert.Equal(t, w.Config().SystemPrompt, gen.prompts[0][0].Text)
}

func TestGroundingDisabled(t *testing.T) {
	gen := &scriptedGenerator{respond: func(bool) (string, error) {
		return "", errors.New("quota exceeded")
	}}

	w, err := New(config.Config{Grounding: false}, WithGenerator(gen))
	require.NoError(t, err)

	conv, err := conversation.New("standup notes")
	require.NoError(t, err)

	_, err = w.AskFollowUp(context.Background(), conv, "who owns the migration?")
	assert.ErrorIs(t, err, invoker.ErrInvocation)
	assert.Equal(t, []bool{false}, gen.grounding)
	assert.Zero(t, conv.Len())
}

func TestSessions(t *testing.T) {
	gen := &scriptedGenerator{respond: func(bool) (string, error) {
		return "Sam owns it.", nil
	}}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	w, err := New(config.Config{Grounding: true, SystemPrompt: "be brief"}, WithGenerator(gen), WithClock(func() time.Time { return at }))
	require.NoError(t, err)

	ctx := context.Background()

	id, err := w.CreateSession(ctx, "standup notes")
	require.NoError(t, err)

	reply, err := w.Ask(ctx, id, "who owns the migration?")
	require.NoError(t, err)
	assert.Equal(t, "Sam owns it.", reply)

	turns, err := w.Turns(ctx, id)
	require.NoError(t, err)
	assert.Len(t, turns, 2)

	ids, err := w.ListSessionIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	require.NoError(t, w.DeleteSession(ctx, id))

	assert.Equal(t, "be brief", gen.prompts[0][0].Text)
}
