package split

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thywilljoshua/pdf-split/internal/ai"
	"github.com/thywilljoshua/pdf-split/internal/sections"
)

// normalizeTitles runs every title through the enhancer and returns a new
// tree; the input tree is left alone. Page runs are shared, not copied. An
// answer with the wrong length or a blank title is discarded whole.
func normalizeTitles(ctx context.Context, e ai.Enhancer, root sections.Section, log *slog.Logger) sections.Section {
	var titles []string
	collectTitles(root, &titles)

	out, err := e.NormalizeTitles(ctx, titles)
	if err != nil || len(out) != len(titles) {
		log.Warn("title clean-up skipped", "error", err, "got", len(out), "want", len(titles))
		return root
	}
	for j, t := range out {
		if strings.TrimSpace(t) == "" {
			log.Warn("title clean-up skipped", "blank_title_for", titles[j])
			return root
		}
	}
	i := 0
	return retitle(root, out, &i)
}

func collectTitles(s sections.Section, titles *[]string) {
	*titles = append(*titles, s.Title)
	for _, c := range s.Children {
		collectTitles(c, titles)
	}
}

func retitle(s sections.Section, titles []string, i *int) sections.Section {
	out := sections.Section{Title: titles[*i], Pages: s.Pages}
	*i++
	if len(s.Children) > 0 {
		out.Children = make([]sections.Section, len(s.Children))
		for j, c := range s.Children {
			out.Children[j] = retitle(c, titles, i)
		}
	}
	return out
}
