package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"acqos/internal/framework"
)

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when the renderer cannot be built.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// TaskMarkdown builds the instruction sheet of a task with its stored values.
func TaskMarkdown(task framework.Task, values map[string]string, main string, done bool) string {
	var sb strings.Builder

	check := "[ ]"
	if done {
		check = "[x]"
	}
	fmt.Fprintf(&sb, "# %s %s\n\n", check, task.Title)
	fmt.Fprintf(&sb, "*Importance : %s*\n\n", task.Rank())
	if task.Description != "" {
		sb.WriteString(task.Description + "\n\n")
	}
	if task.MediaContent != "" {
		fmt.Fprintf(&sb, "> %s\n\n", task.MediaContent)
	}

	if len(task.Inputs) > 0 {
		sb.WriteString("## Champs\n\n")
		for _, in := range task.Inputs {
			v := values[in.ID]
			if v == "" {
				v = "_" + placeholderOr(in.Placeholder) + "_"
			}
			fmt.Fprintf(&sb, "- **%s** (`%s`) : %s\n", in.Label, in.ID, v)
			if len(in.Options) > 0 {
				fmt.Fprintf(&sb, "  - options : %s\n", strings.Join(in.Options, ", "))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Notes\n\n")
	if main != "" {
		sb.WriteString(main + "\n")
	} else {
		sb.WriteString("_" + placeholderOr(task.Placeholder) + "_\n")
	}
	return sb.String()
}

func placeholderOr(p string) string {
	if p == "" {
		return "vide"
	}
	return p
}
