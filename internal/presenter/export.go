package presenter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/slidedeck/internal/progress"
	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// printStub is shown for slides without printable content.
const printStub = "Slide content will be formatted for print"

// Result is an exported document.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// Exporter produces static, paginated snapshots of presentations.
type Exporter struct {
	renderer *render.Renderer
	md       goldmark.Markdown
	reporter progress.Reporter
}

// NewExporter creates an exporter. A nil renderer uses the default one and
// a nil reporter reports nothing.
func NewExporter(r *render.Renderer, reporter progress.Reporter) *Exporter {
	if r == nil {
		r = render.New(nil)
	}
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Exporter{
		renderer: r,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
		),
		reporter: reporter,
	}
}

type printSlide struct {
	Index    int
	Title    string
	Subtitle string
	Body     template.HTML
}

type printDoc struct {
	Title  string
	Slides []printSlide
}

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}} - Apresentação</title>
    <style>
      body { font-family: Inter, sans-serif; }
      .slide-container { padding: 2cm; }
      @media print {
        .slide-container {
          page-break-after: always;
          margin: 0;
          padding: 2cm;
          min-height: 100vh;
        }
        .slide-container:last-child { page-break-after: avoid; }
        .no-print { display: none !important; }
      }
    </style>
  </head>
  <body>
{{- range .Slides}}
    <div class="slide-container" data-slide="{{.Index}}">
      <h1 style="color: hsl(221, 83%, 53%); font-size: 2.5rem; font-weight: bold; margin-bottom: 1rem;">{{.Title}}</h1>
      {{- if .Subtitle}}
      <p style="color: hsl(215.4, 16.3%, 46.9%); font-size: 1.125rem; margin-bottom: 2rem;">{{.Subtitle}}</p>
      {{- end}}
      <div style="margin-top: 2rem;">{{.Body}}</div>
    </div>
{{- end}}
  </body>
</html>
`))

// ExportToPrintable renders every slide of p onto its own print page:
// title, subtitle and a markdown projection of the slide content.
func (e *Exporter) ExportToPrintable(p slides.Presentation) (*Result, error) {
	doc := printDoc{Title: p.Title}
	e.reporter.Start(len(p.Slides))
	defer e.reporter.Finish()

	for i, s := range p.Slides {
		body, err := e.slideBody(s)
		if err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i+1, err)
		}
		doc.Slides = append(doc.Slides, printSlide{
			Index:    i,
			Title:    s.Title,
			Subtitle: s.Subtitle,
			Body:     body,
		})
		e.reporter.Update(i+1, s.Title)
	}

	var buf bytes.Buffer
	if err := printTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("executing print template: %w", err)
	}
	return &Result{
		Data:     buf.Bytes(),
		Filename: sanitizeFilename(p.Title) + ".html",
		MimeType: "text/html; charset=utf-8",
	}, nil
}

func (e *Exporter) slideBody(s slides.Slide) (template.HTML, error) {
	root := e.renderer.Render(s, render.ModeView)
	content := render.Node{Type: render.NodeSlide}
	for _, c := range root.Children {
		if c.Type != render.NodeTitle && c.Type != render.NodeSubtitle {
			content.Children = append(content.Children, c)
		}
	}

	text := strings.TrimSpace(render.Markdown(content))
	if text == "" {
		return template.HTML("<p>" + printStub + "</p>"), nil
	}
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// PrintSurface displays an exported document and starts printing it.
type PrintSurface interface {
	Open(ctx context.Context, doc *Result) error
}

// ExportToPrintable exports the controller's local presentation state.
func (c *Controller) ExportToPrintable(e *Exporter) (*Result, error) {
	return e.ExportToPrintable(c.Presentation())
}

// Print exports the presentation and hands it to surface. A surface that
// cannot be opened is reported as an error notice and ErrPopupBlocked; the
// controller state is unaffected.
func (c *Controller) Print(ctx context.Context, e *Exporter, surface PrintSurface) error {
	doc, err := c.ExportToPrintable(e)
	if err != nil {
		return err
	}
	if err := surface.Open(ctx, doc); err != nil {
		c.notices.Error(ctx, "Erro na exportação",
			"Não foi possível abrir a janela de impressão. Verifique se pop-ups estão bloqueados.")
		return fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}
	return nil
}

// sanitizeFilename creates a safe filename from a title.
func sanitizeFilename(title string) string {
	var sb strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('-')
		case r == '-', r == '_':
			sb.WriteRune(r)
		}
	}

	result := sb.String()
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "presentation"
	}
	return result
}
