package generator

import (
	"context"
	"errors"

	"github.com/w-h-a/wingman/content"
)

var (
	ErrGroundingUnsupported = errors.New("search grounding is not supported by this generator")
	ErrUnsupportedMedia     = errors.New("media type is not supported by this generator")
	ErrEmptyResponse        = errors.New("empty response from model")
)

type Generator interface {
	Generate(ctx context.Context, parts []content.Part, opts ...GenerateOption) (string, error)
}
