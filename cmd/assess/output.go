package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/freedomology/backend/internal/domain/program"
	"github.com/freedomology/backend/internal/domain/scoring"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

const barWidth = 20

// scoreColor picks green for strong scores, yellow for middling, red for weak.
func scoreColor(score int) func(...any) string {
	switch {
	case score >= 70:
		return green
	case score >= 40:
		return yellow
	default:
		return red
	}
}

func bar(score int) string {
	filled := scoring.RoundHalfUp(score*barWidth, 100)
	return strings.Repeat("█", filled) + gray(strings.Repeat("░", barWidth-filled))
}

func printResult(w io.Writer, res scoring.Result) {
	paint := scoreColor(res.Overall)
	fmt.Fprintf(w, "\n%s %s\n", bold("Freedom Score:"), paint(fmt.Sprintf("%d", res.Overall)))
	if res.Capped {
		fmt.Fprintln(w, gray(fmt.Sprintf("  capped from %d by your lowest pillar", res.RawOverall)))
	}

	fmt.Fprintf(w, "\n%s\n", bold("Pillars"))
	for _, p := range res.Pillars {
		marker := " "
		if p.PillarID == res.LowestPillar {
			marker = red("▼")
		}
		fmt.Fprintf(w, "%s %-14s %s %s\n", marker, p.Name, bar(p.Score), scoreColor(p.Score)(fmt.Sprintf("%3d", p.Score)))
	}

	fmt.Fprintf(w, "\n%s\n", bold("Categories"))
	for _, c := range res.Categories {
		fmt.Fprintf(w, "  %-22s %s %s\n", c.Name, scoreColor(c.Score)(fmt.Sprintf("%3d", c.Score)),
			gray(fmt.Sprintf("(%d/%d answered)", c.Answered, c.Questions)))
	}

	if p, ok := program.ForPillar(res.LowestPillar); ok {
		fmt.Fprintf(w, "\n%s %s\n", cyan("Recommended:"), bold(p.Heading))
		fmt.Fprintf(w, "  %s\n", p.Summary)
		fmt.Fprintf(w, "  %s\n", green(p.CTA))
	}
}
