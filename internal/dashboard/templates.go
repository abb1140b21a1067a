package dashboard

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

const baseCSS = `
body { margin: 0; font-family: system-ui, sans-serif; background: #0f172a; color: #e2e8f0; }
a { color: hsl(221, 83%, 65%); }
main { max-width: 960px; margin: 0 auto; padding: 2rem; }
`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Apresentações</title>
<style>` + baseCSS + `</style>
</head>
<body>
<main>
<h1>Apresentações</h1>
{{if .}}<ul>
{{range .}}<li><a href="/view/{{.ID}}">{{.Title}}</a> ({{len .Slides}} slides){{with .Description}} - {{.}}{{end}}</li>
{{end}}</ul>
{{else}}<p>Nenhuma apresentação encontrada.</p>
{{end}}</main>
</body>
</html>`))

var viewerTmpl = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>` + baseCSS + `
#stage { height: 100vh; display: flex; align-items: flex-start; justify-content: center; overflow: hidden; }
#deck { transform-origin: top center; width: 100%; max-width: 1200px; }
.slide { display: none; background: #fff; color: #111827; border-radius: 12px; padding: 2rem; }
.slide.current { display: block; }
.slide h1 { color: hsl(221, 83%, 53%); }
#status { position: fixed; bottom: 0.5rem; right: 1rem; font-size: 0.8rem; opacity: 0.7; }
</style>
</head>
<body>
<div id="stage"
  data-id="{{.ID}}"
  data-fit="{{.Fit.Enabled}}"
  data-min-scale="{{.Fit.MinScale}}"
  data-max-scale="{{.Fit.MaxScale}}"
  data-padding="{{.Fit.Padding}}"
  data-debounce-ms="{{.Fit.DebounceMs}}"
  data-orientation-delay-ms="{{.Fit.OrientationDelayMs}}"
  data-min-content-delta="{{.Fit.MinContentDelta}}">
<div id="deck">
{{range .Slides}}{{.}}
{{end}}</div>
</div>
<div id="status"></div>
<script>
(function () {
  var stage = document.getElementById("stage");
  var deck = document.getElementById("deck");
  var slides = deck.querySelectorAll(".slide");
  var status = document.getElementById("status");
  var current = 0;

  var opts = {
    enabled: stage.dataset.fit === "true",
    minScale: parseFloat(stage.dataset.minScale),
    maxScale: parseFloat(stage.dataset.maxScale),
    padding: parseFloat(stage.dataset.padding),
    debounce: parseInt(stage.dataset.debounceMs, 10),
    settle: parseInt(stage.dataset.orientationDelayMs, 10),
    minDelta: parseFloat(stage.dataset.minContentDelta)
  };
  var debounceTimer = null;
  var settleTimer = null;
  var lastContent = 0;

  // Mobile browsers can report an inner height above the physical screen.
  function visibleHeight() {
    var inner = window.innerHeight;
    var screenHeight = window.screen ? window.screen.height : 0;
    return screenHeight > 0 && screenHeight < inner ? screenHeight : inner;
  }

  function fit() {
    deck.style.transform = "none";
    if (!opts.enabled) return;
    var available = visibleHeight() - deck.getBoundingClientRect().top - opts.padding;
    var content = deck.scrollHeight;
    lastContent = content;
    var scale = 1;
    if (content > 0 && content > available) {
      scale = Math.max(opts.minScale, Math.min(opts.maxScale, available / content));
    }
    deck.style.transform = "scale(" + scale + ")";
    stage.dataset.scale = scale.toFixed(2);
  }

  function schedule() {
    clearTimeout(debounceTimer);
    debounceTimer = setTimeout(fit, opts.debounce);
  }

  function orientationChanged() {
    clearTimeout(settleTimer);
    settleTimer = setTimeout(schedule, opts.settle);
  }

  function show(i) {
    if (i < 0 || i >= slides.length) return;
    slides[current].classList.remove("current");
    current = i;
    slides[current].classList.add("current");
    status.textContent = (current + 1) + " / " + slides.length;
    fit();
  }

  document.addEventListener("keydown", function (e) {
    if (e.key === "ArrowRight" || e.key === " " || e.key === "PageDown") { e.preventDefault(); show(current + 1); }
    if (e.key === "ArrowLeft" || e.key === "PageUp") { e.preventDefault(); show(current - 1); }
    if (e.key === "Home") { e.preventDefault(); show(0); }
    if (e.key === "End") { e.preventDefault(); show(slides.length - 1); }
  });
  window.addEventListener("resize", schedule);
  window.addEventListener("orientationchange", orientationChanged);
  var observer = null;
  if (window.ResizeObserver) {
    observer = new ResizeObserver(function () {
      if (Math.abs(deck.scrollHeight - lastContent) >= opts.minDelta) schedule();
    });
    observer.observe(deck);
  }
  window.addEventListener("pagehide", function () {
    clearTimeout(debounceTimer);
    clearTimeout(settleTimer);
    if (observer) observer.disconnect();
  });

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws/presentations/" + encodeURIComponent(stage.dataset.id));
  ws.onmessage = function (msg) {
    var ev = JSON.parse(msg.data);
    if (ev.type === "navigate") show(ev.index);
    if (ev.type === "slide_updated") location.reload();
  };

  if (slides.length > 0) show(0);
})();
</script>
</body>
</html>`))

type viewerData struct {
	ID     string
	Title  string
	Fit    fitData
	Slides []template.HTML
}

type fitData struct {
	Enabled            bool
	MinScale           float64
	MaxScale           float64
	Padding            float64
	DebounceMs         int64
	OrientationDelayMs int64
	MinContentDelta    float64
}

// ServeIndex lists the stored presentations.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	list, err := d.store.List(r.Context())
	if err != nil {
		log.Printf("dashboard: listing presentations: %v", err)
		http.Error(w, "Failed to fetch presentations", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, list); err != nil {
		log.Printf("dashboard: rendering index: %v", err)
	}
}

// ServeViewer renders every slide of a presentation in view mode.
func (d *Dashboard) ServeViewer(w http.ResponseWriter, r *http.Request) {
	p, err := d.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Presentation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("dashboard: loading presentation: %v", err)
		http.Error(w, "Failed to fetch presentation", http.StatusInternalServerError)
		return
	}

	data, err := d.viewerData(p)
	if err != nil {
		log.Printf("dashboard: %v", err)
		http.Error(w, "Failed to render presentation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewerTmpl.Execute(w, data); err != nil {
		log.Printf("dashboard: rendering viewer: %v", err)
	}
}

func (d *Dashboard) viewerData(p *slides.Presentation) (viewerData, error) {
	data := viewerData{
		ID:    p.ID,
		Title: p.Title,
		Fit: fitData{
			Enabled:  d.fit.Enabled,
			MinScale: d.fit.MinScale,
			MaxScale: d.fit.MaxScale,
			Padding:  d.fit.Padding,

			DebounceMs:         d.fit.Debounce.Milliseconds(),
			OrientationDelayMs: d.fit.OrientationDelay.Milliseconds(),
			MinContentDelta:    d.fit.MinContentDelta,
		},
	}
	for _, s := range p.Slides {
		html, err := render.HTML(d.renderer.Render(s, render.ModeView))
		if err != nil {
			return viewerData{}, err
		}
		data.Slides = append(data.Slides, html)
	}
	return data, nil
}
