package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/w-h-a/wingman/answer"
	"github.com/w-h-a/wingman/content"
	"github.com/w-h-a/wingman/conversation"
	"github.com/w-h-a/wingman/internal/service/assistant"
	"github.com/w-h-a/wingman/invoker"
	"github.com/w-h-a/wingman/normalizer"
	"github.com/w-h-a/wingman/store"
)

const maxBodyBytes = 32 << 20

type Wingman interface {
	ExtractProblem(ctx context.Context, imagePaths []string) (*answer.Extraction, error)
	GenerateSolution(ctx context.Context, problem *answer.Extraction) (*answer.Solution, error)
	DebugWithImages(ctx context.Context, problem *answer.Extraction, currentAnswer string, imagePaths []string) (*answer.Solution, error)
	AnalyzeAudioFile(ctx context.Context, path string) (*answer.Analysis, error)
	AnalyzeAudio(ctx context.Context, data string, mimeType string) (*answer.Analysis, error)
	AnalyzeImageFile(ctx context.Context, path string) (*answer.Analysis, error)
	AskFollowUp(ctx context.Context, conv *conversation.Conversation, question string) (string, error)
	CreateSession(ctx context.Context, originalContent string) (string, error)
	Ask(ctx context.Context, sessionId string, question string) (string, error)
	Turns(ctx context.Context, sessionId string) ([]conversation.Turn, error)
	ListSessionIds(ctx context.Context) ([]string, error)
	DeleteSession(ctx context.Context, sessionId string) error
}

type Handler struct {
	wingman Wingman
}

type extractRequest struct {
	ImagePaths []string `json:"image_paths"`
}

type solveRequest struct {
	Problem *answer.Extraction `json:"problem"`
}

type debugRequest struct {
	Problem       *answer.Extraction `json:"problem"`
	CurrentAnswer string             `json:"current_answer"`
	ImagePaths    []string           `json:"image_paths"`
}

// audioRequest carries either a file path or a base64 recorder buffer.
type audioRequest struct {
	Path     string `json:"path"`
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

type imageRequest struct {
	Path string `json:"path"`
}

type followUpRequest struct {
	OriginalContent string              `json:"original_content"`
	History         []conversation.Turn `json:"history"`
	Question        string              `json:"question"`
}

type followUpResponse struct {
	Answer  string              `json:"answer"`
	History []conversation.Turn `json:"history"`
}

type sessionRequest struct {
	OriginalContent string `json:"original_content"`
}

type messageRequest struct {
	Question string `json:"question"`
}

type errorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

func (h *Handler) ExtractProblem(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rsp, err := h.wingman.ExtractProblem(r.Context(), req.ImagePaths)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (h *Handler) GenerateSolution(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rsp, err := h.wingman.GenerateSolution(r.Context(), req.Problem)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answer.SolutionEnvelope{Solution: rsp})
}

func (h *Handler) DebugWithImages(w http.ResponseWriter, r *http.Request) {
	var req debugRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rsp, err := h.wingman.DebugWithImages(r.Context(), req.Problem, req.CurrentAnswer, req.ImagePaths)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answer.SolutionEnvelope{Solution: rsp})
}

func (h *Handler) AnalyzeAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	var (
		rsp *answer.Analysis
		err error
	)

	switch {
	case len(req.Path) > 0 && len(req.Data) > 0:
		err = fmt.Errorf("%w: path and data are mutually exclusive", assistant.ErrInvalidInput)
	case len(req.Path) > 0:
		rsp, err = h.wingman.AnalyzeAudioFile(r.Context(), req.Path)
	case len(req.Data) > 0:
		rsp, err = h.wingman.AnalyzeAudio(r.Context(), req.Data, req.MIMEType)
	default:
		err = fmt.Errorf("%w: path or data is required", assistant.ErrInvalidInput)
	}

	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if len(req.Path) == 0 {
		writeError(w, r, fmt.Errorf("%w: path is required", assistant.ErrInvalidInput))
		return
	}

	rsp, err := h.wingman.AnalyzeImageFile(r.Context(), req.Path)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rsp)
}

// FollowUp answers against a transcript the caller keeps itself.
func (h *Handler) FollowUp(w http.ResponseWriter, r *http.Request) {
	var req followUpRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	conv, err := conversation.New(req.OriginalContent, req.History...)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", assistant.ErrInvalidInput, err))
		return
	}

	reply, err := h.wingman.AskFollowUp(r.Context(), conv, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, followUpResponse{Answer: reply, History: conv.Turns()})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if len(strings.TrimSpace(req.OriginalContent)) == 0 {
		writeError(w, r, fmt.Errorf("%w: original_content is required", assistant.ErrInvalidInput))
		return
	}

	id, err := h.wingman.CreateSession(r.Context(), req.OriginalContent)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.wingman.ListSessionIds(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	reply, err := h.wingman.Ask(r.Context(), mux.Vars(r)["id"], req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": reply})
}

func (h *Handler) Turns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.wingman.Turns(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]conversation.Turn{"turns": turns})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.wingman.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, fmt.Errorf("%w: decode request: %v", assistant.ErrInvalidInput, err))
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	rsp := errorResponse{Error: err.Error()}

	var malformed *normalizer.MalformedResponseError
	if errors.As(err, &malformed) {
		rsp.Raw = malformed.Raw
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	}

	writeJSON(w, status, rsp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrInvalidInput), errors.Is(err, content.ErrEncoding):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, invoker.ErrInvocation), errors.Is(err, normalizer.ErrMalformedResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func NewHandler(wingman Wingman) *Handler {
	if wingman == nil {
		panic("wingman is required")
	}

	return &Handler{
		wingman: wingman,
	}
}
