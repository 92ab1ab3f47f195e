// Package wingman turns screenshots, audio and follow-up questions into
// model answers. A Wingman sends each request through a search-grounded
// attempt first and a plain attempt second, then shapes the raw text into
// typed answers.
package wingman

import (
	"context"
	"io"

	"github.com/w-h-a/wingman/answer"
	"github.com/w-h-a/wingman/config"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/generator"
	"github.com/w-h-a/wingman/generator/anthropic"
	"github.com/w-h-a/wingman/generator/google"
	"github.com/w-h-a/wingman/generator/openai"
	"github.com/w-h-a/wingman/internal/service/assistant"
	"github.com/w-h-a/wingman/internal/service/session"
	"github.com/w-h-a/wingman/invoker"
	"github.com/w-h-a/wingman/store"
	"github.com/w-h-a/wingman/store/memory"
	"github.com/w-h-a/wingman/store/postgres"
)

type Wingman struct {
	config    config.Config
	generator generator.Generator
	store     store.Store
	assistant *assistant.Service
	session   *session.Service
}

func (w *Wingman) Config() config.Config {
	return w.config
}

func (w *Wingman) ExtractProblem(ctx context.Context, imagePaths []string) (*answer.Extraction, error) {
	return w.assistant.ExtractProblem(ctx, imagePaths)
}

func (w *Wingman) GenerateSolution(ctx context.Context, problem *answer.Extraction) (*answer.Solution, error) {
	return w.assistant.GenerateSolution(ctx, problem)
}

func (w *Wingman) DebugWithImages(ctx context.Context, problem *answer.Extraction, currentAnswer string, imagePaths []string) (*answer.Solution, error) {
	return w.assistant.DebugWithImages(ctx, problem, currentAnswer, imagePaths)
}

func (w *Wingman) AnalyzeAudioFile(ctx context.Context, path string) (*answer.Analysis, error) {
	return w.assistant.AnalyzeAudioFile(ctx, path)
}

func (w *Wingman) AnalyzeAudio(ctx context.Context, data string, mimeType string) (*answer.Analysis, error) {
	return w.assistant.AnalyzeAudio(ctx, data, mimeType)
}

func (w *Wingman) AnalyzeImageFile(ctx context.Context, path string) (*answer.Analysis, error) {
	return w.assistant.AnalyzeImageFile(ctx, path)
}

// AskFollowUp answers against a caller-held conversation, which gains two
// turns on success and none on failure.
func (w *Wingman) AskFollowUp(ctx context.Context, conv *conversation.Conversation, question string) (string, error) {
	return w.assistant.AskFollowUp(ctx, conv, question)
}

func (w *Wingman) CreateSession(ctx context.Context, originalContent string) (string, error) {
	return w.session.CreateSession(ctx, originalContent)
}

func (w *Wingman) Ask(ctx context.Context, sessionId string, question string) (string, error) {
	return w.session.Ask(ctx, sessionId, question)
}

func (w *Wingman) Turns(ctx context.Context, sessionId string) ([]conversation.Turn, error) {
	return w.session.Turns(ctx, sessionId)
}

func (w *Wingman) ListSessionIds(ctx context.Context) ([]string, error) {
	return w.session.ListSessionIds(ctx)
}

func (w *Wingman) DeleteSession(ctx context.Context, sessionId string) error {
	return w.session.DeleteSession(ctx, sessionId)
}

func (w *Wingman) Close() error {
	if closer, ok := w.generator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// New validates cfg and wires a Wingman. Provider clients that cannot be
// constructed panic, as the generator packages do.
func New(cfg config.Config, opts ...Option) (*Wingman, error) {
	options := NewOptions(opts...)

	cfg = cfg.WithDefaults()

	gen := options.Generator
	if gen == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		gen = newGenerator(cfg)
	}

	st := options.Store
	if st == nil {
		st = newStore(cfg)
	}

	encoderOpts := []content.Option{}
	if options.Concurrency > 0 {
		encoderOpts = append(encoderOpts, content.WithConcurrency(options.Concurrency))
	}

	inv := invoker.New(
		gen,
		invoker.WithPreamble(cfg.SystemPrompt),
		invoker.WithGrounding(cfg.Grounding),
	)

	assistantService := assistant.New(
		inv,
		content.NewEncoder(encoderOpts...),
		options.Clock,
	)

	sessionService := session.New(
		assistantService,
		st,
	)

	return &Wingman{
		config:    cfg,
		generator: gen,
		store:     st,
		assistant: assistantService,
		session:   sessionService,
	}, nil
}

func newGenerator(cfg config.Config) generator.Generator {
	opts := []generator.Option{
		generator.WithApiKey(cfg.ApiKey),
		generator.WithModel(cfg.Model),
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewGenerator(opts...)
	case config.ProviderAnthropic:
		return anthropic.NewGenerator(opts...)
	default:
		return google.NewGenerator(opts...)
	}
}

func newStore(cfg config.Config) store.Store {
	if len(cfg.DatabaseURL) > 0 {
		return postgres.NewStore(store.WithLocation(cfg.DatabaseURL))
	}
	return memory.NewStore()
}
