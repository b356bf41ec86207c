package ai

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model}, nil
}

func (g *Gemini) prompt(ctx context.Context, text string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// NormalizeTitles asks the model to clean up bookmark titles (stray
// numbering artefacts, ALL CAPS, broken hyphenation). Any failure, or an
// answer with a different number of lines, returns the titles untouched.
func (g *Gemini) NormalizeTitles(ctx context.Context, titles []string) ([]string, error) {
	if g == nil || g.client == nil || len(titles) == 0 {
		return titles, nil
	}
	p := "Clean up these PDF bookmark titles so they read well as file names. " +
		"Keep the order and keep section numbers. Fix capitalisation, hyphenation and stray whitespace only. " +
		"Return exactly one title per line, the same number of lines, no extra text.\n\n" + joinLines(titles)
	out, err := g.prompt(ctx, p)
	if err != nil || out == "" {
		return titles, nil
	}
	lines := splitLines(stripCodeFences(out))
	if len(lines) != len(titles) {
		return titles, nil
	}
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = titles[i]
		}
	}
	return lines, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func joinLines(s []string) string {
	return strings.Join(s, "\n")
}

func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
