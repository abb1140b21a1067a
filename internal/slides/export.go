package slides

import (
	"fmt"
	"strings"
)

// ExportToText flattens s into a markdown-like text. The projection is lossy
// and only extracts the well-known sections of intro and content slides.
func ExportToText(s Slide) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", s.Title)
	if s.Subtitle != "" {
		fmt.Fprintf(&sb, "## %s\n\n", s.Subtitle)
	}

	switch s.Kind {
	case KindIntro:
		for _, sec := range objects(s.Content["sections"]) {
			fmt.Fprintf(&sb, "### %s\n", str(sec["title"]))
			for _, item := range items(sec["items"]) {
				fmt.Fprintf(&sb, "- %s\n", item)
			}
			sb.WriteString("\n")
		}
	case KindContent:
		writeEntries(&sb, "Desafios", s.Content["challenges"])
		writeEntries(&sb, "Oportunidades", s.Content["opportunities"])
	default:
		sb.WriteString("Conteúdo do slide\n")
	}
	return sb.String()
}

func writeEntries(sb *strings.Builder, heading string, v any) {
	if v == nil {
		return
	}
	fmt.Fprintf(sb, "### %s\n", heading)
	for _, e := range objects(v) {
		fmt.Fprintf(sb, "- **%s**: %s\n", str(e["title"]), str(e["description"]))
	}
	sb.WriteString("\n")
}

// objects returns the object elements of a list value, skipping others.
func objects(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func items(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, str(e))
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
