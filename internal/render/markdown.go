package render

import "strings"

// Markdown projects n to markdown for terminal and print output. Images and
// input affordances are dropped; charts become lists of labelled values.
func Markdown(n Node) string {
	var sb strings.Builder
	writeMarkdown(&sb, n)
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeMarkdown(sb *strings.Builder, n Node) {
	switch n.Type {
	case NodeSlide, NodeSection:
		for _, c := range n.Children {
			writeMarkdown(sb, c)
		}
	case NodeTitle:
		if n.Text != "" {
			sb.WriteString("# " + n.Text + "\n\n")
		}
	case NodeSubtitle:
		if n.Text != "" {
			sb.WriteString("## " + n.Text + "\n\n")
		}
	case NodeHeading:
		sb.WriteString("### " + n.Text + "\n\n")
	case NodeGroup, NodeList, NodeChart:
		for _, c := range n.Children {
			if line := inline(c); line != "" {
				sb.WriteString("- " + line + "\n")
			}
		}
		sb.WriteString("\n")
	case NodeText:
		if n.Text != "" {
			sb.WriteString(n.Text + "\n\n")
		}
	case NodePlaceholder:
		sb.WriteString("_" + n.Text + "_\n\n")
	}
}

// inline flattens an item or field to one line. The first text of an item
// is emphasized when more text follows it.
func inline(n Node) string {
	if n.Type == NodeImage || n.Type == NodePhotoInput {
		return ""
	}
	if len(n.Children) == 0 {
		return n.Text
	}

	var parts []string
	if n.Text != "" {
		parts = append(parts, n.Text)
	}
	for _, c := range n.Children {
		switch c.Type {
		case NodeList:
			var items []string
			for _, it := range c.Children {
				if s := inline(it); s != "" {
					items = append(items, s)
				}
			}
			if len(items) > 0 {
				parts = append(parts, strings.Join(items, "; "))
			}
		default:
			if s := inline(c); s != "" {
				parts = append(parts, s)
			}
		}
	}
	if len(parts) > 1 {
		return "**" + parts[0] + "**: " + strings.Join(parts[1:], " · ")
	}
	return strings.Join(parts, "")
}
