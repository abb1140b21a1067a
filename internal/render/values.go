package render

import (
	"fmt"
	"sort"
	"strconv"
)

// leadingFields are shown first, in this order; other fields follow
// alphabetically.
var leadingFields = []string{
	"title", "name", "question", "trend", "type", "organization", "source",
	"authors", "stage", "role", "ra", "description", "definition", "context",
	"highlight",
}

var fieldRank = func() map[string]int {
	m := make(map[string]int, len(leadingFields))
	for i, f := range leadingFields {
		m[f] = i
	}
	return m
}()

// Presentation-only attributes that are not displayed as text.
var styleFields = map[string]bool{"icon": true, "color": true}

func orderedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if !styleFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := fieldRank[keys[i]]
		rj, jok := fieldRank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// valueNodes renders the value of the top-level section key.
func valueNodes(c *Context, key string, v any) []Node {
	switch t := v.(type) {
	case bool:
		return []Node{{Type: NodeImage, Role: key}}
	case map[string]any:
		return []Node{{Type: NodeGroup, Role: key, Children: fieldNodes(c, key, -1, t)}}
	case []any:
		list := Node{Type: NodeList, Role: key}
		for i, e := range t {
			item := Node{Type: NodeItem, Role: key}
			if m, ok := e.(map[string]any); ok {
				item.Children = fieldNodes(c, key, i, m)
			} else {
				item.Text = scalar(e)
			}
			list.Children = append(list.Children, item)
		}
		return []Node{list}
	default:
		return []Node{{Type: NodeText, Role: key, Text: scalar(t)}}
	}
}

// fieldNodes renders the fields of an object that lives at content[key]
// (index < 0) or at content[key][index]. String fields are editable through
// the matching field path.
func fieldNodes(c *Context, key string, index int, m map[string]any) []Node {
	edit := c.Mode == ModeEdit
	var out []Node
	for _, f := range orderedKeys(m) {
		path := key + "." + f
		if index >= 0 {
			path = key + "." + strconv.Itoa(index) + "." + f
		}
		switch t := m[f].(type) {
		case string:
			if f == "photo" {
				if t != "" {
					out = append(out, Node{Type: NodeImage, Role: f, Src: t})
				}
				continue
			}
			out = append(out, textNode(NodeText, f, t, path, edit))
		case map[string]any:
			out = append(out, Node{Type: NodeGroup, Role: f, Children: plainNodes(t)})
		case []any:
			out = append(out, plainList(f, t))
		case nil:
		default:
			out = append(out, Node{Type: NodeText, Role: f, Text: scalar(t)})
		}
	}
	if edit && index >= 0 && key == "teamMembers" {
		out = append(out, Node{
			Type: NodePhotoInput,
			Role: "photo",
			Path: key + "." + strconv.Itoa(index) + ".photo",
		})
	}
	return out
}

// plainNodes renders nested values below the depth reachable by field
// paths; they are never editable.
func plainNodes(m map[string]any) []Node {
	var out []Node
	for _, f := range orderedKeys(m) {
		switch t := m[f].(type) {
		case map[string]any:
			out = append(out, Node{Type: NodeGroup, Role: f, Children: plainNodes(t)})
		case []any:
			out = append(out, plainList(f, t))
		case nil:
		default:
			out = append(out, Node{Type: NodeText, Role: f, Text: scalar(t)})
		}
	}
	return out
}

func plainList(role string, list []any) Node {
	n := Node{Type: NodeList, Role: role}
	for _, e := range list {
		item := Node{Type: NodeItem, Role: role}
		if m, ok := e.(map[string]any); ok {
			item.Children = plainNodes(m)
		} else {
			item.Text = scalar(e)
		}
		n.Children = append(n.Children, item)
	}
	return n
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
