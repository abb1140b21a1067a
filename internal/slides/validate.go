package slides

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes one failing field of a payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a slide or presentation payload does not
// satisfy the schema.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Validate reports whether s has a title, a known kind and the minimal
// kind-specific shape. Other kind-specific fields are not inspected.
func Validate(s Slide) bool {
	return len(shallowErrors(s)) == 0
}

func shallowErrors(s Slide) []FieldError {
	var errs []FieldError
	if s.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if !s.Kind.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: fmt.Sprintf("unknown kind %q", s.Kind)})
		return errs
	}

	switch s.Kind {
	case KindChart:
		data, _ := s.Content["chartData"].(map[string]any)
		if data == nil || data["labels"] == nil || data["values"] == nil {
			errs = append(errs, FieldError{Field: "content.chartData", Message: "labels and values are required"})
		}
	case KindDiscussion:
		if _, ok := s.Content["questions"].([]any); !ok {
			errs = append(errs, FieldError{Field: "content.questions", Message: "must be a list"})
		}
	}
	return errs
}

// ValidateStrict checks s like Validate and additionally decodes its
// content into the typed body for its kind, reporting every failing field.
func ValidateStrict(s Slide) error {
	errs := shallowErrors(s)
	if s.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "required"})
	}
	if s.Kind.Valid() {
		body, err := DecodeBody(s)
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			errs = append(errs, verr.Errors...)
		case err != nil:
			errs = append(errs, FieldError{Field: "content", Message: err.Error()})
		default:
			if cb, ok := body.(*ChartBody); ok && cb.ChartData != nil && len(cb.ChartData.Labels) != len(cb.ChartData.Values) {
				errs = append(errs, FieldError{Field: "content.chartData", Message: "labels and values must have the same length"})
			}
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidateSlides strictly validates a full slide list. Field names are
// prefixed with the slide position, e.g. "slides.2.title". Slide ids must be
// unique within the list.
func ValidateSlides(list []Slide) error {
	var errs []FieldError
	seen := make(map[string]int, len(list))
	for i, s := range list {
		prefix := fmt.Sprintf("slides.%d.", i)
		if err := ValidateStrict(s); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for _, fe := range verr.Errors {
					errs = append(errs, FieldError{Field: prefix + fe.Field, Message: fe.Message})
				}
			}
		}
		if s.ID == "" {
			continue
		}
		if j, dup := seen[s.ID]; dup {
			errs = append(errs, FieldError{Field: prefix + "id", Message: fmt.Sprintf("duplicates slides.%d.id", j)})
			continue
		}
		seen[s.ID] = i
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidatePresentation validates a create or replace payload: a non-empty
// title and a strictly valid slide list.
func ValidatePresentation(title string, list []Slide) error {
	var errs []FieldError
	if strings.TrimSpace(title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	var verr *ValidationError
	if err := ValidateSlides(list); errors.As(err, &verr) {
		errs = append(errs, verr.Errors...)
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
