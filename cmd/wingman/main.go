package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/wingman"
	"github.com/w-h-a/wingman/config"
)

type Globals struct {
	// Generator config
	Provider     string `help:"Model provider" enum:"google,openai,anthropic" default:"google" env:"WINGMAN_PROVIDER"`
	ApiKey       string `help:"API key for the model provider" env:"GEMINI_API_KEY"`
	Model        string `help:"Model identifier, empty uses the provider default" env:"GEMINI_MODEL"`
	Grounding    string `help:"Search grounding, false or 0 disables it" default:"true" env:"ENABLE_SEARCH_GROUNDING"`
	SystemPrompt string `help:"Preamble sent ahead of every prompt, empty uses the built-in one"`

	// Store config
	DatabaseURL string `help:"Postgres URL for conversations, empty keeps them in memory" env:"WINGMAN_DATABASE_URL"`

	// Log config
	LogLevel  string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Log format" enum:"text,json" default:"text"`
}

func (g *Globals) config() config.Config {
	return config.Config{
		Provider:     config.Provider(g.Provider),
		ApiKey:       g.ApiKey,
		Model:        g.Model,
		Grounding:    config.ParseGrounding(g.Grounding),
		SystemPrompt: g.SystemPrompt,
		DatabaseURL:  g.DatabaseURL,
	}
}

func (g *Globals) wingman() (*wingman.Wingman, error) {
	return wingman.New(g.config())
}

func (g *Globals) logger() *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(strings.ToUpper(g.LogLevel)))

	opts := &slog.HandlerOptions{Level: level}

	if g.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

var cli struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Extract ExtractCmd `cmd:"" help:"Extract a problem from screenshots."`
	Solve   SolveCmd   `cmd:"" help:"Solve a problem statement."`
	Debug   DebugCmd   `cmd:"" help:"Revise an answer using debug screenshots."`
	Audio   AudioCmd   `cmd:"" help:"Describe an audio recording."`
	Image   ImageCmd   `cmd:"" help:"Describe an image."`
	Chat    ChatCmd    `cmd:"" help:"Ask follow-up questions about some content."`
}

func main() {
	// Load .env before flags resolve their env defaults
	_ = godotenv.Load()

	// Parse inputs
	ctx := kong.Parse(
		&cli,
		kong.Name("wingman"),
		kong.Description("Screen, audio and follow-up assistance backed by a multimodal model."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "config.json", "~/.config/wingman/config.json"),
	)

	slog.SetDefault(cli.Globals.logger())

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
