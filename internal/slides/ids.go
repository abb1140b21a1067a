package slides

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idAttempts = 5

// GenerateID returns a slide id made of the current time and a random
// suffix. Ids are unique with high probability within the process.
func GenerateID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("slide-%d-%s", time.Now().UnixMilli(), suffix)
}

// UniqueID returns a fresh id that does not collide with any id in existing.
func UniqueID(existing []Slide) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s.ID] = struct{}{}
	}
	for range idAttempts {
		id := GenerateID()
		if _, ok := taken[id]; !ok {
			return id
		}
	}
	return "slide-" + uuid.New().String()
}

// CreateEmpty returns a placeholder slide of the given kind with an empty
// content skeleton. Its id does not collide with any slide in existing.
func CreateEmpty(kind Kind, existing ...Slide) Slide {
	s := Slide{
		ID:    UniqueID(existing),
		Kind:  kind,
		Title: "Novo Slide",
		Order: 0,
	}

	switch kind {
	case KindIntro:
		s.Content = Content{"sections": []any{}}
	case KindChart:
		s.Content = Content{
			"chartData":    map[string]any{"labels": []any{}, "values": []any{}},
			"stats":        []any{},
			"successCases": []any{},
		}
	case KindDiscussion:
		s.Content = Content{
			"questions":         []any{},
			"interactionSpaces": []any{},
		}
	default:
		s.Content = Content{}
	}
	return s
}

// Duplicate returns a deep copy of s with a new id and a title marked as a
// copy. Order is kept; callers re-sequence the list.
func Duplicate(s Slide, existing ...Slide) Slide {
	c := s.Clone()
	c.ID = UniqueID(append(existing[:len(existing):len(existing)], s))
	c.Title = s.Title + " (Cópia)"
	return c
}
