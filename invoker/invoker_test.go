package invoker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/generator"
)

type call struct {
	parts   []content.Part
	options generator.GenerateOptions
}

type fakeGenerator struct {
	mtx     sync.Mutex
	calls   []call
	respond func(n int, options generator.GenerateOptions) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, parts []content.Part, opts ...generator.GenerateOption) (string, error) {
	options := generator.NewGenerateOptions(opts...)

	f.mtx.Lock()
	f.calls = append(f.calls, call{parts: parts, options: options})
	n := len(f.calls)
	f.mtx.Unlock()

	return f.respond(n, options)
}

var errQuota = errors.New("quota exceeded")

func TestInvoke_GroundedSuccess(t *testing.T) {
	gen := &fakeGenerator{respond: func(int, generator.GenerateOptions) (string, error) {
		return "fresh answer", nil
	}}

	inv := New(gen, WithPreamble("You are a wingman."))

	res, err := inv.Invoke(context.Background(), []content.Part{content.Text("question")})
	require.NoError(t, err)

	assert.Equal(t, Result{RawText: "fresh answer", UsedGrounding: true}, res)
	require.Len(t, gen.calls, 1)
	assert.True(t, gen.calls[0].options.Grounding)
	assert.Equal(t, []content.Part{content.Text("You are a wingman."), content.Text("question")}, gen.calls[0].parts)
}

func TestInvoke_FallbackUsesIdenticalPrompt(t *testing.T) {
	gen := &fakeGenerator{respond: func(n int, options generator.GenerateOptions) (string, error) {
		if options.Grounding {
			return "", generator.ErrGroundingUnsupported
		}
		return "plain answer", nil
	}}

	img := content.Part{Kind: content.KindInlineMedia, MIMEType: content.MIMETypePNG, Data: "aGk="}

	inv := New(gen, WithPreamble("preamble"))

	res, err := inv.Invoke(context.Background(), []content.Part{content.Text("what is this"), img}, WithStructured(true))
	require.NoError(t, err)

	assert.Equal(t, "plain answer", res.RawText)
	assert.False(t, res.UsedGrounding)

	require.Len(t, gen.calls, 2)
	assert.True(t, gen.calls[0].options.Grounding)
	assert.False(t, gen.calls[1].options.Grounding)
	assert.Equal(t, gen.calls[0].parts, gen.calls[1].parts)
	assert.True(t, gen.calls[0].options.JSON)
	assert.True(t, gen.calls[1].options.JSON)
}

func TestInvoke_BothFail(t *testing.T) {
	gen := &fakeGenerator{respond: func(n int, options generator.GenerateOptions) (string, error) {
		if options.Grounding {
			return "", generator.ErrGroundingUnsupported
		}
		return "", errQuota
	}}

	inv := New(gen)

	res, err := inv.Invoke(context.Background(), []content.Part{content.Text("q")})
	require.Error(t, err)

	assert.Equal(t, Result{}, res)
	assert.Len(t, gen.calls, 2)
	assert.ErrorIs(t, err, ErrInvocation)
	assert.ErrorIs(t, err, generator.ErrGroundingUnsupported)
	assert.ErrorIs(t, err, errQuota)

	var invErr *InvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, 2, invErr.Attempts())
}

func TestInvoke_EmptyTextCountsAsFailure(t *testing.T) {
	gen := &fakeGenerator{respond: func(n int, options generator.GenerateOptions) (string, error) {
		if n == 1 {
			return "   ", nil
		}
		return "second", nil
	}}

	res, err := New(gen).Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{RawText: "second", UsedGrounding: false}, res)
}

func TestInvoke_GroundingDisabled(t *testing.T) {
	gen := &fakeGenerator{respond: func(int, generator.GenerateOptions) (string, error) {
		return "", errQuota
	}}

	_, err := New(gen, WithGrounding(false)).Invoke(context.Background(), []content.Part{content.Text("q")})
	require.ErrorIs(t, err, ErrInvocation)

	require.Len(t, gen.calls, 1)
	assert.False(t, gen.calls[0].options.Grounding)
}

func TestInvoke_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gen := &fakeGenerator{respond: func(int, generator.GenerateOptions) (string, error) {
		cancel()
		return "", context.Canceled
	}}

	_, err := New(gen).Invoke(ctx, []content.Part{content.Text("q")})
	require.ErrorIs(t, err, ErrInvocation)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gen.calls, 1)
}

func TestInvoke_DoesNotMutateCallerParts(t *testing.T) {
	gen := &fakeGenerator{respond: func(int, generator.GenerateOptions) (string, error) {
		return "ok", nil
	}}

	parts := []content.Part{content.Text("a"), content.Text("b")}

	_, err := New(gen, WithPreamble("p")).Invoke(context.Background(), parts)
	require.NoError(t, err)

	assert.Equal(t, []content.Part{content.Text("a"), content.Text("b")}, parts)
}

var errRejected = errors.New("not json")

func acceptJSON(raw string) error {
	if raw[0] != '{' {
		return errRejected
	}
	return nil
}

func TestInvoke_RejectedReplyFallsBack(t *testing.T) {
	gen := &fakeGenerator{respond: func(n int, options generator.GenerateOptions) (string, error) {
		if options.Grounding {
			return "Sure! {oops", nil
		}
		return `{"ok": true}`, nil
	}}

	res, err := New(gen, WithPreamble("p")).Invoke(
		context.Background(),
		[]content.Part{content.Text("q")},
		WithStructured(true),
		WithAccept(acceptJSON),
	)
	require.NoError(t, err)

	assert.Equal(t, Result{RawText: `{"ok": true}`, UsedGrounding: false}, res)
	require.Len(t, gen.calls, 2)
	assert.Equal(t, gen.calls[0].parts, gen.calls[1].parts)
}

func TestInvoke_LastRejectionReturnedAsIs(t *testing.T) {
	gen := &fakeGenerator{respond: func(n int, options generator.GenerateOptions) (string, error) {
		if n == 1 {
			return "", errQuota
		}
		return "still prose", nil
	}}

	res, err := New(gen).Invoke(context.Background(), nil, WithAccept(acceptJSON))
	require.ErrorIs(t, err, errRejected)
	assert.NotErrorIs(t, err, ErrInvocation)

	assert.Equal(t, "still prose", res.RawText)
	assert.Len(t, gen.calls, 2)
}
