package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-split/internal/ai"
	"github.com/thywilljoshua/pdf-split/internal/config"
	"github.com/thywilljoshua/pdf-split/internal/split"
)

// splitFlags are shared by split and plan.
type splitFlags struct {
	level       int
	title       string
	concurrency int
	aiProvider  string
	aiModel     string
	verbose     bool
}

func (f *splitFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.level, "level", "l", split.DefaultMaxLevel, "outline depth to split at (0 keeps a single document)")
	cmd.Flags().StringVar(&f.title, "title", "", "title of the root document (default: PDF metadata title)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 4, "parallel page copies")
	cmd.Flags().StringVar(&f.aiProvider, "ai", config.AIOff, "title clean-up provider: off|gemini (gemini reads GOOGLE_API_KEY)")
	cmd.Flags().StringVar(&f.aiModel, "ai-model", ai.DefaultGeminiModel, "Gemini model used for title clean-up")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")
}

func (f *splitFlags) config(ctx context.Context, stderr io.Writer) (split.Config, error) {
	if f.level < 0 {
		return split.Config{}, fmt.Errorf("--level must be >= 0, got %d", f.level)
	}
	enh, err := newEnhancer(ctx, f.aiProvider, os.Getenv("GOOGLE_API_KEY"), f.aiModel)
	if err != nil {
		return split.Config{}, err
	}
	return split.Config{
		MaxLevel:    f.level,
		Title:       f.title,
		Concurrency: f.concurrency,
		Enhancer:    enh,
		Logger:      newLogger(stderr, f.verbose),
	}, nil
}

// newEnhancer returns nil when title clean-up is off.
func newEnhancer(ctx context.Context, provider, apiKey, model string) (ai.Enhancer, error) {
	switch strings.ToLower(provider) {
	case "", config.AIOff:
		return nil, nil
	case config.AIGemini:
		g, err := ai.NewGemini(ctx, apiKey, model)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q (want off or gemini)", provider)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// stem is the input file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
