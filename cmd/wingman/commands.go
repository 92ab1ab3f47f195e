package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/w-h-a/wingman/answer"
	handler "github.com/w-h-a/wingman/internal/handler/http"
	"github.com/w-h-a/wingman/server"
	httpserver "github.com/w-h-a/wingman/server/http"
)

type ServeCmd struct {
	Address        string        `help:"Listen address" default:":8080" env:"WINGMAN_ADDRESS"`
	AllowedOrigins []string      `help:"Origins allowed to call the API from a browser"`
	Shutdown       time.Duration `help:"Graceful shutdown timeout" default:"10s"`
}

func (c *ServeCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create wingman
	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	// Create server
	srv := httpserver.NewServer(
		handler.NewRouter(handler.NewHandler(w)),
		server.WithAddress(c.Address),
		server.WithShutdownTimeout(c.Shutdown),
		httpserver.WithMiddleware(handler.LogRequests),
		httpserver.WithAllowedOrigins(c.AllowedOrigins...),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	return srv.Stop(context.Background())
}

type ExtractCmd struct {
	Images []string `arg:"" type:"existingfile" help:"Screenshots, in order."`
}

func (c *ExtractCmd) Run(g *Globals) error {
	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	rsp, err := w.ExtractProblem(context.Background(), c.Images)
	if err != nil {
		return err
	}

	return printJSON(os.Stdout, rsp)
}

type SolveCmd struct {
	Problem string `arg:"" help:"Problem statement, or a JSON file written by extract."`
}

func (c *SolveCmd) Run(g *Globals) error {
	problem, err := loadProblem(c.Problem)
	if err != nil {
		return err
	}

	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	rsp, err := w.GenerateSolution(context.Background(), problem)
	if err != nil {
		return err
	}

	return printJSON(os.Stdout, answer.SolutionEnvelope{Solution: rsp})
}

type DebugCmd struct {
	Problem string   `required:"" help:"Problem statement, or a JSON file written by extract."`
	Answer  []byte   `required:"" type:"filecontent" help:"File holding the current answer."`
	Images  []string `arg:"" type:"existingfile" help:"Debug screenshots, in order."`
}

func (c *DebugCmd) Run(g *Globals) error {
	problem, err := loadProblem(c.Problem)
	if err != nil {
		return err
	}

	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	rsp, err := w.DebugWithImages(context.Background(), problem, string(c.Answer), c.Images)
	if err != nil {
		return err
	}

	return printJSON(os.Stdout, answer.SolutionEnvelope{Solution: rsp})
}

type AudioCmd struct {
	Path     string `arg:"" type:"existingfile" help:"Recording to describe."`
	MimeType string `help:"MIME type of the recording, empty sends it as audio/mp3"`
}

func (c *AudioCmd) Run(g *Globals) error {
	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	var rsp *answer.Analysis

	if len(c.MimeType) == 0 {
		rsp, err = w.AnalyzeAudioFile(context.Background(), c.Path)
	} else {
		var bs []byte
		bs, err = os.ReadFile(c.Path)
		if err != nil {
			return err
		}
		rsp, err = w.AnalyzeAudio(context.Background(), base64.StdEncoding.EncodeToString(bs), c.MimeType)
	}
	if err != nil {
		return err
	}

	fmt.Println(rsp.Text)

	return nil
}

type ImageCmd struct {
	Path string `arg:"" type:"existingfile" help:"Image to describe."`
}

func (c *ImageCmd) Run(g *Globals) error {
	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	rsp, err := w.AnalyzeImageFile(context.Background(), c.Path)
	if err != nil {
		return err
	}

	fmt.Println(rsp.Text)

	return nil
}

type ChatCmd struct {
	Content string `arg:"" help:"Content the conversation is about."`
	Session string `help:"Resume an existing session instead of starting one"`
}

func (c *ChatCmd) Run(g *Globals) error {
	ctx := context.Background()

	w, err := g.wingman()
	if err != nil {
		return err
	}
	defer w.Close()

	sessionId := c.Session
	if len(sessionId) == 0 {
		sessionId, err = w.CreateSession(ctx, c.Content)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Session %s. Ask a question, or send an empty line to quit.\n", sessionId)

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		input = strings.TrimSpace(input)
		if len(input) == 0 {
			fmt.Println("Goodbye!")
			return nil
		}

		rsp, askErr := w.Ask(ctx, sessionId, input)
		if askErr != nil {
			fmt.Println("Error answering:", askErr)
		} else {
			fmt.Printf("%s\n---\n", rsp)
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// loadProblem accepts either a bare statement or an extract result on disk.
func loadProblem(arg string) (*answer.Extraction, error) {
	if strings.HasSuffix(arg, ".json") {
		bs, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}

		var problem answer.Extraction
		if err := json.Unmarshal(bs, &problem); err != nil {
			return nil, fmt.Errorf("read problem %s: %w", arg, err)
		}

		return &problem, nil
	}

	return &answer.Extraction{ProblemStatement: arg}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
