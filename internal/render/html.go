package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var nodeTmpl = template.Must(template.New("slide").Funcs(template.FuncMap{"src": imageSrc}).Parse(`
{{- define "node" -}}
{{- if eq .Type "slide"}}<article class="slide slide-{{.Role}}">{{range .Children}}{{template "node" .}}{{end}}</article>
{{- else if eq .Type "title"}}<h1{{template "edit" .}}>{{.Text}}</h1>
{{- else if eq .Type "subtitle"}}<p class="subtitle"{{template "edit" .}}>{{.Text}}</p>
{{- else if eq .Type "section"}}<section class="section-{{.Role}}">{{range .Children}}{{template "node" .}}{{end}}</section>
{{- else if eq .Type "heading"}}<h2>{{.Text}}</h2>
{{- else if eq .Type "group"}}<div class="group group-{{.Role}}">{{range .Children}}{{template "node" .}}{{end}}</div>
{{- else if eq .Type "list"}}<ul class="list-{{.Role}}">{{range .Children}}{{template "node" .}}{{end}}</ul>
{{- else if eq .Type "item"}}<li>{{.Text}}{{range .Children}}{{template "node" .}}{{end}}</li>
{{- else if eq .Type "text"}}<span class="field-{{.Role}}"{{template "edit" .}}>{{.Text}}</span>
{{- else if eq .Type "image"}}{{if .Src}}<img class="image-{{.Role}}" src="{{src .Src}}" alt="{{.Role}}">{{else}}<figure class="image-{{.Role}}"></figure>{{end}}
{{- else if eq .Type "photo-input"}}<input type="file" accept="image/*" data-path="{{.Path}}">
{{- else if eq .Type "chart"}}<figure class="chart">{{.Raw}}</figure>
{{- else}}<p class="placeholder">{{.Text}}</p>
{{- end -}}
{{- end -}}
{{- define "edit"}}{{if .Editable}} contenteditable="true" data-path="{{.Path}}"{{end}}{{end -}}
{{- template "node" . -}}`))

// HTML renders n as an HTML fragment. Editable nodes carry
// contenteditable and their field path in data-path.
func HTML(n Node) (template.HTML, error) {
	var buf bytes.Buffer
	if err := nodeTmpl.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("rendering slide html: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// imageSrc passes embedded images and http(s) links through the template
// URL filter, which would otherwise reject data URIs.
func imageSrc(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return template.URL(s)
	}
	return ""
}
