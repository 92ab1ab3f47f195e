package content

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

var ErrEncoding = errors.New("encoding failure")

// EncodingError reports a media source that could not be turned into an
// inline part. Source is a file path or "inline" for buffers.
type EncodingError struct {
	Source string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Source, e.Err)
}

func (e *EncodingError) Unwrap() []error {
	return []error{ErrEncoding, e.Err}
}

const inlineSource = "inline"

type Encoder struct {
	options Options
}

// Encode base64-encodes src as an inline media part. The bytes are not
// inspected; only emptiness and the MIME type are checked.
func (e *Encoder) Encode(src []byte, mimeType string) (Part, error) {
	return e.encode(inlineSource, src, mimeType)
}

// EncodeBase64 wraps an already encoded payload, such as a recorder buffer.
func (e *Encoder) EncodeBase64(data string, mimeType string) (Part, error) {
	data = strings.TrimSpace(data)
	if len(data) == 0 {
		return Part{}, &EncodingError{Source: inlineSource, Err: errors.New("empty payload")}
	}

	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return Part{}, &EncodingError{Source: inlineSource, Err: fmt.Errorf("invalid base64 payload: %w", err)}
	}

	mediaType, ok := MediaType(mimeType)
	if !ok {
		return Part{}, &EncodingError{Source: inlineSource, Err: fmt.Errorf("unsupported mime type %q", mimeType)}
	}

	return Part{Kind: KindInlineMedia, MIMEType: mediaType, Data: data}, nil
}

func (e *Encoder) EncodeFile(path string, mimeType string) (Part, error) {
	src, err := e.options.ReadFile(path)
	if err != nil {
		return Part{}, &EncodingError{Source: path, Err: err}
	}

	return e.encode(path, src, mimeType)
}

// EncodeFiles reads and encodes paths concurrently. The returned parts are
// in the same order as paths.
func (e *Encoder) EncodeFiles(ctx context.Context, paths []string, mimeType string) ([]Part, error) {
	parts := make([]Part, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if e.options.Concurrency > 0 {
		g.SetLimit(e.options.Concurrency)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part, err := e.EncodeFile(path, mimeType)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return parts, nil
}

func (e *Encoder) encode(source string, src []byte, mimeType string) (Part, error) {
	if len(src) == 0 {
		return Part{}, &EncodingError{Source: source, Err: errors.New("empty payload")}
	}

	mediaType, ok := MediaType(mimeType)
	if !ok {
		return Part{}, &EncodingError{Source: source, Err: fmt.Errorf("unsupported mime type %q", mimeType)}
	}

	return Part{
		Kind:     KindInlineMedia,
		MIMEType: mediaType,
		Data:     base64.StdEncoding.EncodeToString(src),
	}, nil
}

func NewEncoder(opts ...Option) *Encoder {
	options := NewOptions(opts...)

	if options.ReadFile == nil {
		panic("read file func is required")
	}

	return &Encoder{
		options: options,
	}
}
