package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/w-h-a/wingman/answer"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/invoker"
	"github.com/w-h-a/wingman/normalizer"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	invoker *invoker.Invoker
	encoder *content.Encoder
	now     func() time.Time
}

func (s *Service) ExtractProblem(ctx context.Context, imagePaths []string) (*answer.Extraction, error) {
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrInvalidInput)
	}

	images, err := s.encoder.EncodeFiles(ctx, imagePaths, content.MIMETypePNG)
	if err != nil {
		return nil, err
	}

	parts := append([]content.Part{content.Text(extractPrompt)}, images...)

	return structured[answer.Extraction](ctx, s.invoker, parts)
}

func (s *Service) GenerateSolution(ctx context.Context, problem *answer.Extraction) (*answer.Solution, error) {
	problemJSON, err := marshalProblem(problem)
	if err != nil {
		return nil, err
	}

	parts := []content.Part{
		content.Text(fmt.Sprintf(solutionPrompt, problemJSON)),
	}

	envelope, err := structured[answer.SolutionEnvelope](ctx, s.invoker, parts)
	if err != nil {
		return nil, err
	}

	return envelope.Solution, nil
}

// DebugWithImages re-solves a problem given the current answer as plain
// text and new screenshots showing what went wrong.
func (s *Service) DebugWithImages(ctx context.Context, problem *answer.Extraction, currentAnswer string, imagePaths []string) (*answer.Solution, error) {
	problemJSON, err := marshalProblem(problem)
	if err != nil {
		return nil, err
	}

	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("%w: at least one debug image is required", ErrInvalidInput)
	}

	images, err := s.encoder.EncodeFiles(ctx, imagePaths, content.MIMETypePNG)
	if err != nil {
		return nil, err
	}

	parts := append([]content.Part{content.Text(fmt.Sprintf(debugPrompt, problemJSON, currentAnswer))}, images...)

	envelope, err := structured[answer.SolutionEnvelope](ctx, s.invoker, parts)
	if err != nil {
		return nil, err
	}

	return envelope.Solution, nil
}

func (s *Service) AnalyzeAudioFile(ctx context.Context, path string) (*answer.Analysis, error) {
	audio, err := s.encoder.EncodeFile(path, content.MIMETypeMP3)
	if err != nil {
		return nil, err
	}

	return s.describe(ctx, audioPrompt, audio)
}

// AnalyzeAudio handles a recorder buffer that is already base64 encoded.
func (s *Service) AnalyzeAudio(ctx context.Context, data string, mimeType string) (*answer.Analysis, error) {
	audio, err := s.encoder.EncodeBase64(data, mimeType)
	if err != nil {
		return nil, err
	}

	if !audio.IsAudio() {
		return nil, fmt.Errorf("%w: %s is not an audio type", ErrInvalidInput, audio.MIMEType)
	}

	return s.describe(ctx, audioPrompt, audio)
}

func (s *Service) AnalyzeImageFile(ctx context.Context, path string) (*answer.Analysis, error) {
	image, err := s.encoder.EncodeFile(path, content.MIMETypePNG)
	if err != nil {
		return nil, err
	}

	return s.describe(ctx, imagePrompt, image)
}

// AskFollowUp answers question in the context of conv. Only a successful
// answer is recorded: conv gains the question and the answer, in that
// order, or nothing at all.
func (s *Service) AskFollowUp(ctx context.Context, conv *conversation.Conversation, question string) (string, error) {
	if conv == nil {
		return "", fmt.Errorf("%w: conversation is required", ErrInvalidInput)
	}

	question = strings.TrimSpace(question)
	if len(question) == 0 {
		return "", fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	parts := []content.Part{
		content.Text(fmt.Sprintf(followUpPrompt, conv.Transcript(), question)),
	}

	res, err := s.invoker.Invoke(ctx, parts)
	if err != nil {
		return "", err
	}

	reply := normalizer.Freeform(res.RawText)

	conv.Exchange(question, reply)

	return reply, nil
}

func (s *Service) describe(ctx context.Context, instruction string, media content.Part) (*answer.Analysis, error) {
	res, err := s.invoker.Invoke(ctx, []content.Part{content.Text(instruction), media})
	if err != nil {
		return nil, err
	}

	return &answer.Analysis{
		Text:          normalizer.Freeform(res.RawText),
		Timestamp:     s.now(),
		UsedGrounding: res.UsedGrounding,
	}, nil
}

type validator interface {
	Validate() error
}

// structured runs a JSON call. Each attempt's reply is decoded into a fresh
// T, so a grounded reply that does not parse falls back to the plain attempt.
func structured[T any, P interface {
	*T
	validator
}](ctx context.Context, inv *invoker.Invoker, parts []content.Part) (*T, error) {
	var out *T

	accept := func(raw string) error {
		v := new(T)
		if err := decode(raw, P(v)); err != nil {
			return err
		}
		out = v
		return nil
	}

	if _, err := inv.Invoke(ctx, parts, invoker.WithStructured(true), invoker.WithAccept(accept)); err != nil {
		return nil, err
	}

	return out, nil
}

func decode(raw string, v validator) error {
	if err := normalizer.Structured(raw, v); err != nil {
		return err
	}

	if err := v.Validate(); err != nil {
		return normalizer.Malformed(raw, err)
	}

	return nil
}

func marshalProblem(problem *answer.Extraction) (string, error) {
	if problem == nil {
		return "", fmt.Errorf("%w: extracted problem is required", ErrInvalidInput)
	}

	bs, err := json.MarshalIndent(problem, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal problem: %w", err)
	}

	return string(bs), nil
}

func New(
	invoker *invoker.Invoker,
	encoder *content.Encoder,
	now func() time.Time,
) *Service {
	if invoker == nil {
		panic("invoker is required")
	}

	if encoder == nil {
		encoder = content.NewEncoder()
	}

	if now == nil {
		now = time.Now
	}

	return &Service{
		invoker: invoker,
		encoder: encoder,
		now:     now,
	}
}
