package wingman

import (
	"context"
	"time"

	"github.com/w-h-a/wingman/generator"
	"github.com/w-h-a/wingman/store"
)

type Option func(*Options)

type Options struct {
	Generator   generator.Generator
	Store       store.Store
	Clock       func() time.Time
	Concurrency int
	Context     context.Context
}

// WithGenerator replaces the provider client built from the config.
func WithGenerator(gen generator.Generator) Option {
	return func(o *Options) {
		o.Generator = gen
	}
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// WithConcurrency bounds how many images are read at once.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Clock:   time.Now,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
