package content

import (
	"context"
	"os"
)

type ReadFileFunc func(name string) ([]byte, error)

type Option func(*Options)

type Options struct {
	ReadFile    ReadFileFunc
	Concurrency int
	Context     context.Context
}

func WithReadFile(fn ReadFileFunc) Option {
	return func(o *Options) {
		o.ReadFile = fn
	}
}

// WithConcurrency bounds the number of files read at once by EncodeFiles.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		ReadFile:    os.ReadFile,
		Concurrency: 4,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
