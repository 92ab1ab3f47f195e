package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/generator"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Generate(ctx context.Context, parts []content.Part, opts ...generator.GenerateOption) (string, error) {
	options := generator.NewGenerateOptions(opts...)

	req, err := toGenaiParts(parts)
	if err != nil {
		return "", err
	}

	rsp, err := g.client.Models.GenerateContent(
		ctx,
		g.options.Model,
		[]*genai.Content{genai.NewContentFromParts(req, genai.RoleUser)},
		configure(g.options, options),
	)
	if err != nil {
		return "", err
	}

	return responseText(rsp)
}

func configure(options generator.Options, generateOptions generator.GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}

	if generateOptions.Grounding {
		cfg.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
		// JSON response mode cannot be combined with search tools
		return cfg
	}

	if generateOptions.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	return cfg
}

func toGenaiParts(parts []content.Part) ([]*genai.Part, error) {
	out := make([]*genai.Part, 0, len(parts))

	for i, part := range parts {
		switch part.Kind {
		case content.KindText:
			out = append(out, genai.NewPartFromText(part.Text))
		case content.KindInlineMedia:
			bs, err := base64.StdEncoding.DecodeString(part.Data)
			if err != nil {
				return nil, fmt.Errorf("part %d: decode inline media: %w", i, err)
			}
			out = append(out, genai.NewPartFromBytes(bs, part.MIMEType))
		default:
			return nil, fmt.Errorf("part %d: unknown kind %q", i, part.Kind)
		}
	}

	return out, nil
}

func responseText(rsp *genai.GenerateContentResponse) (string, error) {
	if rsp == nil || len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
		return "", generator.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	if b.Len() == 0 {
		return "", generator.ErrEmptyResponse
	}

	return b.String(), nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = DefaultModel
	}

	g := &googleGenerator{
		options: options,
	}

	client, err := genai.NewClient(
		options.Context,
		&genai.ClientConfig{
			APIKey:  options.ApiKey,
			Backend: genai.BackendGeminiAPI,
			HTTPClient: &http.Client{
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
		},
	)
	if err != nil {
		panic(err)
	}

	g.client = client

	return g
}
