package slides

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Block is an object-shaped content section whose fields are rendered
// generically.
type Block = map[string]any

// List is an array-shaped content section with loosely typed elements.
type List = []any

// Body is the typed view of a slide's content for one kind. Every section
// is optional; a nil or empty field means the section is absent.
type Body interface {
	Kind() Kind
}

type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	RA    string `json:"ra,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type Section struct {
	Title string   `json:"title"`
	Icon  string   `json:"icon,omitempty"`
	Color string   `json:"color,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Entry is the common title/description element used by several lists.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type Question struct {
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
	Color    string `json:"color,omitempty"`
}

type CallToAction struct {
	Title   string   `json:"title"`
	Actions []string `json:"actions,omitempty"`
}

type IntroBody struct {
	PresentationInfo Block        `json:"presentationInfo,omitempty"`
	TeamMembers      []TeamMember `json:"teamMembers,omitempty"`
	Sections         []Section    `json:"sections,omitempty"`
	EcosystemImage   bool         `json:"ecosystemImage,omitempty"`
}

func (IntroBody) Kind() Kind { return KindIntro }

type ContentBody struct {
	Phases            []Entry `json:"phases,omitempty"`
	Challenges        []Entry `json:"challenges,omitempty"`
	Opportunities     []Entry `json:"opportunities,omitempty"`
	MVPConcept        Block   `json:"mvpConcept,omitempty"`
	ValidationProcess List    `json:"validationProcess,omitempty"`
	Metrics           List    `json:"metrics,omitempty"`
	Definition        Block   `json:"definition,omitempty"`
	Characteristics   List    `json:"characteristics,omitempty"`
	Process           Block   `json:"process,omitempty"`
	SeedConcept       Block   `json:"seedConcept,omitempty"`
	Investors         List    `json:"investors,omitempty"`
	UseCases          List    `json:"useCases,omitempty"`
	Milestones        List    `json:"milestones,omitempty"`
	Definitions       Block   `json:"definitions,omitempty"`
	TopPrograms       List    `json:"topPrograms,omitempty"`
	Benefits          List    `json:"benefits,omitempty"`
	Strategies        Block   `json:"strategies,omitempty"`
	BusinessPlan      Block   `json:"businessPlan,omitempty"`
	Impacts           List    `json:"impacts,omitempty"`
	ODS               List    `json:"ods,omitempty"`
	Statistics        List    `json:"statistics,omitempty"`
	Project           Block   `json:"project,omitempty"`
}

func (ContentBody) Kind() Kind { return KindContent }

type ChartBody struct {
	ChartData    *ChartData `json:"chartData,omitempty"`
	Stats        List       `json:"stats,omitempty"`
	SuccessCases List       `json:"successCases,omitempty"`
}

func (ChartBody) Kind() Kind { return KindChart }

type DiscussionBody struct {
	Questions         []Question `json:"questions"`
	InteractionSpaces []Entry    `json:"interactionSpaces,omitempty"`
	AcademicContext   Block      `json:"academicContext,omitempty"`
}

func (DiscussionBody) Kind() Kind { return KindDiscussion }

type ConclusionBody struct {
	Learnings         List          `json:"learnings,omitempty"`
	KeyTakeaways      []Entry       `json:"keyTakeaways,omitempty"`
	FutureTrends      List          `json:"futureTrends,omitempty"`
	CallToAction      *CallToAction `json:"callToAction,omitempty"`
	FuturePerspective Block         `json:"futurePerspective,omitempty"`
	Recommendations   List          `json:"recommendations,omitempty"`
}

func (ConclusionBody) Kind() Kind { return KindConclusion }

type ReferencesBody struct {
	Categories          List `json:"categories,omitempty"`
	AcademicReferences  List `json:"academicReferences,omitempty"`
	IndustryReports     List `json:"industryReports,omitempty"`
	DataSource          List `json:"dataSource,omitempty"`
	AdditionalResources List `json:"additionalResources,omitempty"`
	Footer              any  `json:"footer,omitempty"`
}

func (ReferencesBody) Kind() Kind { return KindReferences }

// DecodeBody decodes the content of s into the typed body for its kind.
// Unknown content keys are ignored; known keys with the wrong shape fail
// with a *ValidationError naming the offending field.
func DecodeBody(s Slide) (Body, error) {
	var body Body
	switch s.Kind {
	case KindIntro:
		body = &IntroBody{}
	case KindContent:
		body = &ContentBody{}
	case KindChart:
		body = &ChartBody{}
	case KindDiscussion:
		body = &DiscussionBody{}
	case KindConclusion:
		body = &ConclusionBody{}
	case KindReferences:
		body = &ReferencesBody{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}

	raw, err := json.Marshal(s.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	if err := json.Unmarshal(raw, body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Errors: []FieldError{{
				Field:   "content." + typeErr.Field,
				Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}}}
		}
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	return body, nil
}
