package invoker

import "context"

type Option func(*Options)

type Options struct {
	// Preamble is the system framing prepended to every prompt.
	Preamble string
	// Grounding enables the search-grounded strategy ahead of the plain one.
	Grounding bool
	Context   context.Context
}

func WithPreamble(preamble string) Option {
	return func(o *Options) {
		o.Preamble = preamble
	}
}

func WithGrounding(grounding bool) Option {
	return func(o *Options) {
		o.Grounding = grounding
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Grounding: true,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type InvokeOption func(*InvokeOptions)

type InvokeOptions struct {
	// Structured marks calls whose answer will be parsed as JSON.
	Structured bool
	// Accept vets the raw text of an attempt. A rejected reply counts as a
	// failed attempt while later strategies remain.
	Accept  func(raw string) error
	Context context.Context
}

func WithStructured(structured bool) InvokeOption {
	return func(o *InvokeOptions) {
		o.Structured = structured
	}
}

func WithAccept(accept func(raw string) error) InvokeOption {
	return func(o *InvokeOptions) {
		o.Accept = accept
	}
}

func NewInvokeOptions(opts ...InvokeOption) InvokeOptions {
	options := InvokeOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
