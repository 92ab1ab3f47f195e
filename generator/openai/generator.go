package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/generator"
)

const DefaultModel = openai.GPT4o

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, parts []content.Part, opts ...generator.GenerateOption) (string, error) {
	options := generator.NewGenerateOptions(opts...)

	if options.Grounding {
		return "", generator.ErrGroundingUnsupported
	}

	req, err := g.buildRequest(parts, options)
	if err != nil {
		return "", err
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", generator.ErrEmptyResponse
	}

	return rsp.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) buildRequest(parts []content.Part, options generator.GenerateOptions) (openai.ChatCompletionRequest, error) {
	multi := make([]openai.ChatMessagePart, 0, len(parts))

	for i, part := range parts {
		switch {
		case part.IsText():
			multi = append(multi, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		case part.IsImage():
			multi = append(multi, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", part.MIMEType, part.Data),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		default:
			return openai.ChatCompletionRequest{}, fmt.Errorf("part %d (%s): %w", i, part.MIMEType, generator.ErrUnsupportedMedia)
		}
	}

	req := openai.ChatCompletionRequest{
		Model:     g.options.Model,
		MaxTokens: g.options.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: multi,
			},
		},
	}

	if options.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return req, nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = DefaultModel
	}

	g := &openAIGenerator{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	g.client = client

	return g
}
