package render

import (
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// sectionOrder lists the optional content sections of each kind in display
// order. Keys outside this table are not displayed.
var sectionOrder = map[slides.Kind][]string{
	slides.KindIntro: {"presentationInfo", "teamMembers", "sections", "ecosystemImage"},
	slides.KindContent: {
		"phases", "challenges", "opportunities", "mvpConcept", "validationProcess",
		"metrics", "definition", "characteristics", "process", "seedConcept",
		"investors", "useCases", "milestones", "definitions", "topPrograms",
		"benefits", "strategies", "businessPlan", "impacts", "ods", "statistics", "project",
	},
	slides.KindChart:      {"chartData", "stats", "successCases"},
	slides.KindDiscussion: {"questions", "interactionSpaces", "academicContext"},
	slides.KindConclusion: {
		"learnings", "keyTakeaways", "futureTrends", "callToAction",
		"futurePerspective", "recommendations",
	},
	slides.KindReferences: {
		"categories", "academicReferences", "industryReports", "dataSource",
		"additionalResources", "footer",
	},
}

var sectionHeadings = map[string]string{
	"presentationInfo":    "Informações",
	"teamMembers":         "Equipe",
	"ecosystemImage":      "Ecossistema",
	"phases":              "Fases",
	"challenges":          "Desafios",
	"opportunities":       "Oportunidades",
	"validationProcess":   "Processo de Validação",
	"metrics":             "Métricas",
	"characteristics":     "Características",
	"investors":           "Investidores",
	"useCases":            "Casos de Uso",
	"milestones":          "Marcos",
	"definitions":         "Definições",
	"topPrograms":         "Principais Programas",
	"benefits":            "Benefícios",
	"impacts":             "Impactos",
	"ods":                 "ODS",
	"statistics":          "Estatísticas",
	"project":             "Projeto",
	"learnings":           "Aprendizados",
	"keyTakeaways":        "Principais Conclusões",
	"futureTrends":        "Tendências Futuras",
	"futurePerspective":   "Perspectivas Futuras",
	"recommendations":     "Recomendações",
	"chartData":           "Volume Investido",
	"stats":               "Destaques",
	"successCases":        "Casos de Sucesso",
	"questions":           "Questões para Discussão",
	"interactionSpaces":   "Espaços de Interação",
	"academicContext":     "Contexto Acadêmico",
	"categories":          "Categorias",
	"academicReferences":  "Referências Acadêmicas",
	"industryReports":     "Relatórios do Setor",
	"dataSource":          "Fontes de Dados",
	"additionalResources": "Recursos Adicionais",
}

// SectionKeys returns the displayable sections of kind in order.
func SectionKeys(kind slides.Kind) []string {
	return append([]string(nil), sectionOrder[kind]...)
}

// PresentSections returns the sections of s that would be displayed.
func PresentSections(s slides.Slide) []string {
	var keys []string
	for _, k := range sectionOrder[s.Kind] {
		if present(s.Content[k]) {
			keys = append(keys, k)
		}
	}
	return keys
}

// sectionHandler renders every present section of keys, in order.
func sectionHandler(keys []string) Handler {
	return func(c *Context, s slides.Slide) []Node {
		var out []Node
		for _, key := range keys {
			v := s.Content[key]
			if !present(v) {
				continue
			}
			sec := Node{Type: NodeSection, Role: key}
			if h := sectionHeadings[key]; h != "" {
				sec.Children = append(sec.Children, Node{Type: NodeHeading, Text: h})
			}
			if key == "chartData" && s.Kind == slides.KindChart {
				sec.Children = append(sec.Children, chartNode(c, v))
			} else {
				sec.Children = append(sec.Children, valueNodes(c, key, v)...)
			}
			out = append(out, sec)
		}
		return out
	}
}

// present reports whether a section value should be displayed. Empty
// lists, empty objects, empty strings and false flags count as absent.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
