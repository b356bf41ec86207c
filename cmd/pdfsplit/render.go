package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/thywilljoshua/pdf-split/internal/sections"
	"github.com/thywilljoshua/pdf-split/internal/split"
)

var (
	// headerStyle frames the document summary
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	// dimStyle for labels and page ranges
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	// emptyStyle marks sections that produce no file
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// renderPlan draws the section tree with one line per section.
func renderPlan(plan *split.Plan) string {
	var b strings.Builder

	header := fmt.Sprintf("%s\n%s %d  %s %d  %s %d",
		titleStyle.Render(plan.Title),
		dimStyle.Render("Pages:"), plan.PageCount,
		dimStyle.Render("Outline depth:"), plan.OutlineDepth,
		dimStyle.Render("Level:"), plan.MaxLevel,
	)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	var visit func(s sections.Section, prefix string, last, root bool)
	visit = func(s sections.Section, prefix string, last, root bool) {
		branch, next := "", ""
		if !root {
			branch, next = "├── ", "│   "
			if last {
				branch, next = "└── ", "    "
			}
		}
		name := s.Title
		if len(s.Children) > 0 {
			name = folderStyle.Render(name + "/")
		}
		fmt.Fprintf(&b, "%s%s%s %s\n", prefix, branch, name, pageRange(s.Pages))
		for i, c := range s.Children {
			visit(c, prefix+next, i == len(s.Children)-1, false)
		}
	}
	visit(plan.Root, "", true, true)
	return b.String()
}

func pageRange(pages []int) string {
	switch n := len(pages); n {
	case 0:
		return emptyStyle.Render("(no pages)")
	case 1:
		return dimStyle.Render(fmt.Sprintf("p. %d", pages[0]))
	default:
		return dimStyle.Render(fmt.Sprintf("pp. %d-%d", pages[0], pages[n-1]))
	}
}

// renderTable lists the sections in pre-order, one row each.
func renderTable(plan *split.Plan) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("#", "SECTION", "PAGES")
	for _, r := range sections.Flatten(plan.Root) {
		pages := "-"
		switch {
		case r.Start == 0:
		case r.Start == r.End:
			pages = fmt.Sprintf("%d", r.Start)
		default:
			pages = fmt.Sprintf("%d-%d", r.Start, r.End)
		}
		t.Row(r.Path, strings.Repeat("  ", r.Depth)+r.Title, pages)
	}
	return t.String() + "\n"
}
