package anthropic

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/generator"
)

const DefaultModel = "claude-sonnet-4-5"

type anthropicGenerator struct {
	options generator.Options
	client  *anthropic.Client
}

func (g *anthropicGenerator) Generate(ctx context.Context, parts []content.Part, opts ...generator.GenerateOption) (string, error) {
	options := generator.NewGenerateOptions(opts...)

	if options.Grounding {
		return "", generator.ErrGroundingUnsupported
	}

	req, err := g.buildRequest(parts)
	if err != nil {
		return "", err
	}

	rsp, err := g.client.Messages.New(ctx, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range rsp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}

	result := b.String()
	if len(result) == 0 {
		return "", generator.ErrEmptyResponse
	}

	return result, nil
}

func (g *anthropicGenerator) buildRequest(parts []content.Part) (anthropic.MessageNewParams, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))

	for i, part := range parts {
		switch {
		case part.IsText():
			blocks = append(blocks, anthropic.NewTextBlock(part.Text))
		case part.IsImage():
			blocks = append(blocks, anthropic.NewImageBlockBase64(part.MIMEType, part.Data))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("part %d (%s): %w", i, part.MIMEType, generator.ErrUnsupportedMedia)
		}
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(g.options.Model),
		MaxTokens: int64(g.options.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}, nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = DefaultModel
	}

	g := &anthropicGenerator{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	g.client = &client

	return g
}
