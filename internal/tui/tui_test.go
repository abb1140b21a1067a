package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/slidedeck/internal/fit"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

func setupModel(t *testing.T) (Model, *presenter.Controller, store.Store) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	if _, err := store.Seed(ctx, s); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	ctrl, err := presenter.Load(ctx, s, store.DefaultID, s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := New(ctx, ctrl, fit.DefaultOptions())
	t.Cleanup(func() {
		m.Close()
		ctrl.Wait()
		s.Close()
	})
	return m, ctrl, s
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func resize(m Model, w, h int) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

func TestNavigation(t *testing.T) {
	m, ctrl, _ := setupModel(t)
	m = resize(m, 120, 40)

	tests := []struct {
		key  string
		want int
	}{
		{"right", 1},
		{"space", 2},
		{"left", 1},
		{"end", 10},
		{"right", 10},
		{"home", 0},
		{"left", 0},
		{"l", 1},
		{"h", 0},
	}
	for _, tt := range tests {
		m = press(m, tt.key)
		if got := ctrl.Index(); got != tt.want {
			t.Fatalf("after %q expected index %d, got %d", tt.key, tt.want, got)
		}
	}
}

func TestFullscreenToggle(t *testing.T) {
	m, ctrl, _ := setupModel(t)

	m = press(m, "ctrl+f")
	if ctrl.Layout() != presenter.LayoutFullscreen {
		t.Fatalf("expected fullscreen, got %v", ctrl.Layout())
	}
	if strings.Contains(m.View(), "Introdução") {
		t.Error("fullscreen should hide the sidebar")
	}

	m = press(m, "esc")
	if ctrl.Layout() != presenter.LayoutEditor {
		t.Fatalf("expected editor, got %v", ctrl.Layout())
	}
	if !strings.Contains(m.View(), "Introdução") {
		t.Error("editor layout should show kind labels in the sidebar")
	}
}

func TestEditFlow(t *testing.T) {
	m, ctrl, s := setupModel(t)
	m = resize(m, 120, 40)

	m = press(m, "e")
	if ctrl.Mode() != render.ModeEdit {
		t.Fatalf("expected edit mode, got %v", ctrl.Mode())
	}

	// Navigation keys belong to the field list while editing.
	m = press(m, "right")
	if ctrl.Index() != 0 {
		t.Fatalf("expected to stay on slide 0, got %d", ctrl.Index())
	}

	m = press(m, "enter")
	if !m.editing {
		t.Fatal("expected the field input to open")
	}
	if m.fields()[m.selected].path != "title" {
		t.Fatalf("expected title to be the first field, got %q", m.fields()[m.selected].path)
	}
	m.input.SetValue("Título Editado")
	m = press(m, "enter")
	if m.editing {
		t.Fatal("expected the field input to close")
	}

	ctrl.Wait()
	p, err := s.Get(context.Background(), store.DefaultID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Slides[0].Title != "Título Editado" {
		t.Errorf("expected saved title, got %q", p.Slides[0].Title)
	}

	m = press(m, "e")
	if ctrl.Mode() != render.ModeView {
		t.Errorf("expected view mode, got %v", ctrl.Mode())
	}
}

func TestRejectedEditShowsError(t *testing.T) {
	m, ctrl, s := setupModel(t)
	m = resize(m, 120, 40)

	m = press(m, "e", "enter")
	m.input.SetValue("")
	m = press(m, "enter")
	ctrl.Wait()

	if m.notice == nil || m.notice.Title != "Erro ao editar" {
		t.Fatalf("expected an edit error notice, got %+v", m.notice)
	}
	if !strings.Contains(m.View(), "Erro ao editar") {
		t.Error("expected the error in the status line")
	}
	p, err := s.Get(context.Background(), store.DefaultID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Slides[0].Title == "" {
		t.Error("empty title was saved")
	}
	if cur, _ := ctrl.Current(); cur.Title == "" {
		t.Error("empty title was applied locally")
	}
}

func TestEditCancel(t *testing.T) {
	m, ctrl, _ := setupModel(t)
	m = press(m, "e", "tab", "enter")
	m.input.SetValue("discarded")
	m = press(m, "esc")
	if m.editing {
		t.Fatal("expected the input to close")
	}
	cur, _ := ctrl.Current()
	if cur.Title == "discarded" {
		t.Error("cancelled edit was applied")
	}
}

func TestViewStatusLine(t *testing.T) {
	m, ctrl, _ := setupModel(t)
	m = resize(m, 120, 40)

	view := m.View()
	if !strings.Contains(view, "Slide 1/11") {
		t.Errorf("expected slide counter in status line")
	}
	if !strings.Contains(view, ctrl.Presentation().Title) {
		t.Errorf("expected presentation title in status line")
	}

	m = press(m, "d")
	if !strings.Contains(m.View(), "scale") {
		t.Errorf("expected fit diagnostics in debug view")
	}
}

func TestSmallTerminalIsScaled(t *testing.T) {
	m, _, _ := setupModel(t)
	m = resize(m, 80, 8)
	if !m.fitting.IsScaled {
		t.Fatalf("expected content to be scaled, got %s", m.fitting)
	}
	if !m.surface.compact() {
		t.Error("expected compact rendering")
	}
	if got := strings.Count(m.View(), "\n") + 1; got > 8 {
		t.Errorf("view has %d rows, terminal has 8", got)
	}

	m = resize(m, 200, 400)
	if m.fitting.IsScaled {
		t.Errorf("expected no scaling on a tall terminal, got %s", m.fitting)
	}
}

func TestPresenterKey(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want presenter.Key
		ok   bool
	}{
		{keyMsg("right"), presenter.Key{Name: presenter.KeyArrowRight}, true},
		{keyMsg("space"), presenter.Key{Name: presenter.KeySpace}, true},
		{tea.KeyMsg{Type: tea.KeyPgDown}, presenter.Key{Name: presenter.KeyPageDown}, true},
		{tea.KeyMsg{Type: tea.KeyPgUp}, presenter.Key{Name: presenter.KeyPageUp}, true},
		{keyMsg("esc"), presenter.Key{Name: presenter.KeyEscape}, true},
		{keyMsg("ctrl+f"), presenter.Key{Name: "f", Ctrl: true}, true},
		{keyMsg("x"), presenter.Key{}, false},
	}
	for _, tt := range tests {
		got, ok := presenterKey(tt.msg)
		if ok != tt.ok || got != tt.want {
			t.Errorf("presenterKey(%q) = %+v, %v; want %+v, %v", tt.msg.String(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestCompactLines(t *testing.T) {
	in := []string{"a", "", "  ", "b"}
	got := compactLines(in)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %q", got)
	}
	if len(in) != 4 || in[1] != "" {
		t.Error("input was modified")
	}
}
