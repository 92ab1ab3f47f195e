package invoker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/generator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/w-h-a/wingman/invoker")

var ErrInvocation = errors.New("invocation failure")

// InvocationError is returned once every strategy has failed. Errs holds
// one entry per attempt, in attempt order.
type InvocationError struct {
	Errs *multierror.Error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invocation failure after %d attempt(s): %s", e.Attempts(), strings.Join(e.messages(), "; "))
}

func (e *InvocationError) Unwrap() []error {
	return append([]error{ErrInvocation}, e.Errs.WrappedErrors()...)
}

func (e *InvocationError) Attempts() int {
	return e.Errs.Len()
}

func (e *InvocationError) messages() []string {
	msgs := make([]string, 0, e.Errs.Len())
	for _, err := range e.Errs.WrappedErrors() {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// Result is the raw text of the winning attempt.
type Result struct {
	RawText       string
	UsedGrounding bool
}

type strategy struct {
	name      string
	grounding bool
}

var (
	grounded = strategy{name: "grounded", grounding: true}
	plain    = strategy{name: "plain", grounding: false}
)

type Invoker struct {
	options    Options
	generator  generator.Generator
	strategies []strategy
}

// Invoke prepends the preamble to parts and runs each strategy in order
// until one succeeds. Every attempt sends the same composed prompt. When
// the last strategy's reply is rejected by the Accept check, that
// rejection is returned as is alongside the raw text.
func (i *Invoker) Invoke(ctx context.Context, parts []content.Part, opts ...InvokeOption) (Result, error) {
	options := NewInvokeOptions(opts...)

	prompt := i.compose(parts)

	ctx, span := tracer.Start(ctx, "invoker.Invoke")
	defer span.End()

	span.SetAttributes(
		attribute.Int("invoker.parts", len(prompt)),
		attribute.Bool("invoker.structured", options.Structured),
	)

	var errs *multierror.Error

	for n, s := range i.strategies {
		text, err := i.attempt(ctx, s, prompt, options)
		if err == nil && options.Accept != nil {
			if rejected := options.Accept(text); rejected != nil {
				if n == len(i.strategies)-1 {
					span.RecordError(rejected)
					span.SetStatus(codes.Error, rejected.Error())
					return Result{RawText: text, UsedGrounding: s.grounding}, rejected
				}
				err = rejected
			}
		}
		if err == nil {
			span.SetAttributes(attribute.Bool("invoker.used_grounding", s.grounding))
			return Result{RawText: text, UsedGrounding: s.grounding}, nil
		}

		errs = multierror.Append(errs, fmt.Errorf("%s attempt: %w", s.name, err))

		if ctx.Err() != nil {
			break
		}

		slog.WarnContext(ctx, "model invocation attempt failed", "strategy", s.name, "error", err)
	}

	invErr := &InvocationError{Errs: errs}

	span.RecordError(invErr)
	span.SetStatus(codes.Error, ErrInvocation.Error())

	return Result{}, invErr
}

func (i *Invoker) attempt(ctx context.Context, s strategy, prompt []content.Part, options InvokeOptions) (string, error) {
	ctx, span := tracer.Start(ctx, "invoker.attempt")
	defer span.End()

	span.SetAttributes(
		attribute.String("invoker.strategy", s.name),
		attribute.Bool("invoker.grounding", s.grounding),
	)

	// each attempt gets its own copy so a generator cannot alter the next one
	cpy := make([]content.Part, len(prompt))
	copy(cpy, prompt)

	text, err := i.generator.Generate(
		ctx,
		cpy,
		generator.WithGrounding(s.grounding),
		generator.WithJSON(options.Structured),
	)
	if err == nil && len(strings.TrimSpace(text)) == 0 {
		err = generator.ErrEmptyResponse
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return text, nil
}

func (i *Invoker) compose(parts []content.Part) []content.Part {
	prompt := make([]content.Part, 0, len(parts)+1)
	if len(i.options.Preamble) > 0 {
		prompt = append(prompt, content.Text(i.options.Preamble))
	}
	return append(prompt, parts...)
}

func New(gen generator.Generator, opts ...Option) *Invoker {
	options := NewOptions(opts...)

	if gen == nil {
		panic("generator is required")
	}

	strategies := []strategy{plain}
	if options.Grounding {
		strategies = []strategy{grounded, plain}
	}

	return &Invoker{
		options:    options,
		generator:  gen,
		strategies: strategies,
	}
}
