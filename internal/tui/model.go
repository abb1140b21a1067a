// Package tui is the terminal presenter: a bubbletea program driving a
// presentation controller, with slides rendered as markdown by glamour.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/slidedeck/internal/fit"
	"github.com/ziadkadry99/slidedeck/internal/notifications"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/render"
)

const (
	sidebarWidth = 28
	// statusRows holds the status line and the progress bar.
	statusRows = 2
)

type fitMsg fit.State

type noticeMsg notifications.Notice

// field is an editable text of the current slide.
type field struct {
	path string
	text string
}

// Model is the bubbletea model of the presenter.
type Model struct {
	ctx  context.Context
	ctrl *presenter.Controller

	fitter  *fit.Fitter
	window  *termWindow
	surface *termSurface
	fitCh   chan fit.State
	fitting fit.State

	notices     <-chan notifications.Notice
	unsubscribe func()
	notice      *notifications.Notice

	md       *glamour.TermRenderer
	rendered string
	bar      progress.Model
	input    textinput.Model
	editing  bool
	selected int

	width  int
	height int
	debug  bool
}

// New creates a presenter model. ctx is used for saves triggered by edits.
func New(ctx context.Context, ctrl *presenter.Controller, opts fit.Options) Model {
	notices, unsubscribe := ctrl.Notices().Subscribe(8)
	m := Model{
		ctx:         ctx,
		ctrl:        ctrl,
		window:      &termWindow{},
		surface:     &termSurface{},
		fitCh:       make(chan fit.State, 1),
		fitting:     fit.Identity,
		notices:     notices,
		unsubscribe: unsubscribe,
		bar:         progress.New(progress.WithDefaultGradient()),
		input:       textinput.New(),
		width:       80,
		height:      24,
	}
	m.fitter = fit.New(opts, m.publishFit)
	m.md = newMarkdownRenderer(m.contentWidth())
	m.window.setRows(m.height)
	m.refresh()
	m.fitting = m.fitter.Attach(m.window, m.surface)
	return m
}

// publishFit hands fitter results to the program. It may run on a timer
// goroutine; only the newest state is kept.
func (m Model) publishFit(st fit.State) {
	select {
	case m.fitCh <- st:
	default:
		select {
		case <-m.fitCh:
		default:
		}
		select {
		case m.fitCh <- st:
		default:
		}
	}
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	return r
}

// Close releases the fitter timers and the notice subscription.
func (m Model) Close() {
	m.fitter.Close()
	m.unsubscribe()
}

func waitFit(ch <-chan fit.State) tea.Cmd {
	return func() tea.Msg {
		return fitMsg(<-ch)
	}
}

func waitNotice(ch <-chan notifications.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitFit(m.fitCh), waitNotice(m.notices), m.bar.SetPercent(m.percent()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.md = newMarkdownRenderer(m.contentWidth())
		m.bar.Width = msg.Width - 4
		m.input.Width = m.contentWidth() - 4
		m.window.setRows(m.height)
		m.refresh()
		m.fitter.Resize()
		return m, nil

	case fitMsg:
		m.fitting = fit.State(msg)
		return m, waitFit(m.fitCh)

	case noticeMsg:
		n := notifications.Notice(msg)
		m.notice = &n
		return m, waitNotice(m.notices)

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "d":
		m.debug = !m.debug
		m.refresh()
		return m, nil
	case "e":
		if m.ctrl.Layout() == presenter.LayoutEditor {
			m.ctrl.ToggleEditMode()
			m.selected = 0
			m.refresh()
		}
		return m, nil
	}

	if m.ctrl.Mode() == render.ModeEdit && m.ctrl.Layout() == presenter.LayoutEditor {
		fields := m.fields()
		switch msg.String() {
		case "tab", "down":
			if len(fields) > 0 {
				m.selected = (m.selected + 1) % len(fields)
			}
			return m, nil
		case "shift+tab", "up":
			if len(fields) > 0 {
				m.selected = (m.selected - 1 + len(fields)) % len(fields)
			}
			return m, nil
		case "enter":
			if m.selected < len(fields) {
				m.editing = true
				m.input.SetValue(fields[m.selected].text)
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
			return m, nil
		}
	}

	key, ok := presenterKey(msg)
	if !ok {
		return m, nil
	}
	before, layout := m.ctrl.Index(), m.ctrl.Layout()
	if !m.ctrl.HandleKey(key) {
		return m, nil
	}
	if m.ctrl.Layout() != layout {
		m.md = newMarkdownRenderer(m.contentWidth())
	}
	m.refresh()
	if m.ctrl.Index() != before {
		return m, m.bar.SetPercent(m.percent())
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		fields := m.fields()
		if m.selected < len(fields) {
			if err := m.ctrl.Edit(m.ctx, fields[m.selected].path, m.input.Value()); err != nil {
				m.notice = &notifications.Notice{
					Severity: notifications.SeverityError,
					Title:    "Erro ao editar",
					Message:  err.Error(),
				}
			}
		}
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh re-renders the current slide and reports its height to the
// fitter.
func (m *Model) refresh() {
	m.rendered = m.renderSlide()
	lines := strings.Count(strings.TrimRight(m.rendered, "\n"), "\n") + 1
	m.surface.set(m.reservedRows(), lines)
	m.fitting = m.fitter.Recompute()
}

func (m Model) renderSlide() string {
	node, ok := m.ctrl.View()
	if !ok {
		return "Nenhum slide disponível."
	}
	md := render.Markdown(node)
	if m.md == nil {
		return md
	}
	out, err := m.md.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m Model) fields() []field {
	node, ok := m.ctrl.View()
	if !ok {
		return nil
	}
	var out []field
	node.Walk(func(n render.Node) {
		if n.Editable && n.Path != "" {
			out = append(out, field{path: n.Path, text: n.Text})
		}
	})
	return out
}

func (m Model) percent() float64 {
	if m.ctrl.Len() == 0 {
		return 0
	}
	return float64(m.ctrl.Index()+1) / float64(m.ctrl.Len())
}

func (m Model) contentWidth() int {
	w := m.width
	if m.ctrl.Layout() == presenter.LayoutEditor {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w - 4
}

// reservedRows counts the rows not available to the slide body.
func (m Model) reservedRows() int {
	rows := statusRows
	if m.debug {
		rows++
	}
	if m.ctrl.Mode() == render.ModeEdit && m.ctrl.Layout() == presenter.LayoutEditor {
		rows += editPanelRows
	}
	return rows
}

const editPanelRows = 6

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)
	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			PaddingRight(1)
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (m Model) View() string {
	bodyRows := m.height - m.reservedRows()
	if bodyRows < 1 {
		bodyRows = 1
	}

	lines := strings.Split(strings.TrimRight(m.rendered, "\n"), "\n")
	if m.surface.compact() {
		lines = compactLines(lines)
	}
	if len(lines) > bodyRows {
		lines = lines[:bodyRows]
	}
	for len(lines) < bodyRows {
		lines = append(lines, "")
	}
	body := strings.Join(lines, "\n")

	if m.ctrl.Layout() == presenter.LayoutEditor {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Height(bodyRows).MaxHeight(bodyRows).Render(m.sidebar()), body)
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n")
	if m.ctrl.Mode() == render.ModeEdit && m.ctrl.Layout() == presenter.LayoutEditor {
		sb.WriteString(m.editPanel())
	}
	if m.debug {
		sb.WriteString(mutedStyle.Render(m.fitting.String()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(m.bar.View())
	return sb.String()
}

// compactLines drops blank lines, which is how the terminal shrinks a
// slide that does not fit.
func compactLines(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func (m Model) sidebar() string {
	p := m.ctrl.Presentation()
	var sb strings.Builder
	for i, s := range p.Slides {
		line := fmt.Sprintf("%2d %s", i+1, truncate(s.Title, sidebarWidth-4))
		if i == m.ctrl.Index() {
			sb.WriteString(currentStyle.Render(line))
		} else {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("   " + s.Kind.Label()))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) editPanel() string {
	fields := m.fields()
	var sb strings.Builder
	sb.WriteString(mutedStyle.Render("tab: campo  enter: editar  e: sair da edição"))
	sb.WriteString("\n")

	visible := editPanelRows - 2
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	for i := start; i < len(fields) && i < start+visible; i++ {
		line := fmt.Sprintf("%s: %s", fields[i].path, truncate(fields[i].text, 40))
		if i == m.selected {
			sb.WriteString(currentStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	for i := len(fields) - start; i < visible; i++ {
		sb.WriteString("\n")
	}

	if m.editing {
		sb.WriteString(m.input.View())
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) statusLine() string {
	left := fmt.Sprintf("Slide %d/%d", m.ctrl.Index()+1, m.ctrl.Len())
	if m.ctrl.Len() == 0 {
		left = "Slide 0/0"
	}
	if m.ctrl.Mode() == render.ModeEdit {
		left += " · edição"
	}
	right := m.ctrl.Presentation().Title
	if m.notice != nil {
		text := m.notice.Title
		if m.notice.Severity == notifications.SeverityError {
			text = errorStyle.Render(text)
		}
		right = text + " · " + right
	}

	space := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", space) + right)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
