package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

var (
	// ErrInvalidPath is returned for field paths outside the three
	// addressing grammars.
	ErrInvalidPath = errors.New("invalid field path")
	// ErrNotEditable is returned when a path addresses a value whose
	// container has an incompatible shape.
	ErrNotEditable = errors.New("field is not editable")
	// ErrNotImage is returned when an attached photo is not an image.
	ErrNotImage = errors.New("attachment is not an image")
)

// ApplyEdit returns a copy of s with the value at path replaced. Supported
// paths are "title" and "subtitle", "<section>.<field>" for a field of the
// object at content[section], and "<list>.<index>.<field>" for a field of
// element index of the array at content[list]. When content[list] is not an
// array, content[list+"s"] is tried, so "teamMember.2.name" addresses
// content.teamMembers.
//
// s is never modified. The result shares every untouched subtree with s;
// only the maps and arrays on the edited path are copied. On error the edit
// is discarded and s is returned unchanged.
func ApplyEdit(s slides.Slide, path string, value any) (slides.Slide, error) {
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return s, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}

	switch len(parts) {
	case 1:
		return editTopLevel(s, parts[0], value)
	case 2:
		return editSection(s, parts[0], parts[1], value)
	case 3:
		index, err := strconv.Atoi(parts[1])
		if err != nil || index < 0 {
			return s, fmt.Errorf("%w: %q: bad index", ErrInvalidPath, path)
		}
		return editListElement(s, parts[0], index, parts[2], value)
	default:
		return s, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
}

func editTopLevel(s slides.Slide, field string, value any) (slides.Slide, error) {
	text, ok := value.(string)
	if !ok {
		return s, fmt.Errorf("%w: %s must be text", ErrNotEditable, field)
	}
	switch field {
	case "title":
		s.Title = text
	case "subtitle":
		s.Subtitle = text
	default:
		return s, fmt.Errorf("%w: %q", ErrInvalidPath, field)
	}
	return s, nil
}

func editSection(s slides.Slide, section, field string, value any) (slides.Slide, error) {
	var obj map[string]any
	switch t := s.Content[section].(type) {
	case nil:
		obj = make(map[string]any, 1)
	case map[string]any:
		obj = make(map[string]any, len(t)+1)
		for k, v := range t {
			obj[k] = v
		}
	default:
		return s, fmt.Errorf("%w: content.%s is not an object", ErrNotEditable, section)
	}
	obj[field] = value

	s.Content = withKey(s.Content, section, obj)
	return s, nil
}

func editListElement(s slides.Slide, listKey string, index int, field string, value any) (slides.Slide, error) {
	key, list, err := resolveList(s.Content, listKey)
	if err != nil {
		return s, err
	}
	if index >= len(list) {
		return s, fmt.Errorf("%w: content.%s has %d elements, index %d", ErrInvalidPath, key, len(list), index)
	}

	var elem map[string]any
	switch t := list[index].(type) {
	case nil:
		elem = make(map[string]any, 1)
	case map[string]any:
		elem = make(map[string]any, len(t)+1)
		for k, v := range t {
			elem[k] = v
		}
	default:
		return s, fmt.Errorf("%w: content.%s.%d is not an object", ErrNotEditable, key, index)
	}
	elem[field] = value

	next := make([]any, len(list))
	copy(next, list)
	next[index] = elem

	s.Content = withKey(s.Content, key, next)
	return s, nil
}

func resolveList(c slides.Content, listKey string) (string, []any, error) {
	for _, key := range []string{listKey, listKey + "s"} {
		switch t := c[key].(type) {
		case []any:
			return key, t, nil
		case nil:
			continue
		default:
			return key, nil, fmt.Errorf("%w: content.%s is not a list", ErrNotEditable, key)
		}
	}
	return listKey, nil, fmt.Errorf("%w: no list at content.%s", ErrInvalidPath, listKey)
}

// withKey returns a shallow copy of c with key set to v.
func withKey(c slides.Content, key string, v any) slides.Content {
	out := make(slides.Content, len(c)+1)
	for k, e := range c {
		out[k] = e
	}
	out[key] = v
	return out
}

// AttachPhoto embeds image data as a data URI in the photo field of team
// member index. Nothing is uploaded anywhere.
func AttachPhoto(s slides.Slide, index int, mimeType string, data []byte) (slides.Slide, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return s, fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}
	uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return ApplyEdit(s, "teamMembers."+strconv.Itoa(index)+".photo", uri)
}
