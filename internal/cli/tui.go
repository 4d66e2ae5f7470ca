package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/io"
	"github.com/matzehuels/songsort/pkg/pref"
	"github.com/matzehuels/songsort/pkg/session"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(1, 3).
			Align(lipgloss.Center)
	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	noticeStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Key bindings
// =============================================================================

type rankKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Import key.Binding
	Clean  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newRankKeyMap() rankKeyMap {
	return rankKeyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h", "1"), key.WithHelp("←/h", "prefer left")),
		Right:  key.NewBinding(key.WithKeys("right", "l", "2"), key.WithHelp("→/l", "prefer right")),
		Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import decisions")),
		Clean:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle clean import")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k rankKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Help, k.Quit}
}

func (k rankKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Left, k.Right}, {k.Import, k.Clean}, {k.Help, k.Quit}}
}

// =============================================================================
// rankModel - Interactive comparisons
// =============================================================================

type (
	changedMsg  struct{}
	doneMsg     struct{}
	importedMsg struct {
		summary importer.Summary
		report  io.ParseReport
		err     error
	}
)

// rankModel asks the session's comparisons until the sort finishes or the
// user quits.
type rankModel struct {
	ctx  context.Context
	sess *session.Session
	snap session.Snapshot

	keys  rankKeyMap
	help  help.Model
	bar   bprogress.Model
	input textinput.Model

	importing bool
	clean     bool
	notice    string
	err       error
	quit      bool
}

func newRankModel(ctx context.Context, sess *session.Session, clean bool) rankModel {
	ti := textinput.New()
	ti.Placeholder = "decisions.txt"
	ti.Prompt = "Import from: "
	ti.CharLimit = 512

	m := rankModel{
		ctx:   ctx,
		sess:  sess,
		keys:  newRankKeyMap(),
		help:  help.New(),
		bar:   bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(40), bprogress.WithoutPercentage()),
		input: ti,
		clean: clean,
	}
	m.refresh()
	return m
}

// waitForChange blocks until the session reports a change or finishes.
func waitForChange(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-sess.Changed():
			return changedMsg{}
		case <-sess.Done():
			return doneMsg{}
		}
	}
}

// importFile reads a decision file and merges it into the session.
func importFile(ctx context.Context, sess *session.Session, path string, clean bool) tea.Cmd {
	return func() tea.Msg {
		pairs, report, err := readPairs(path, sess.Items)
		if err != nil {
			return importedMsg{err: err}
		}
		sum, err := sess.Import(ctx, pairs, clean)
		return importedMsg{summary: sum, report: report, err: err}
	}
}

// refresh takes a new snapshot and turns inferred-streak notices into the
// status line.
func (m *rankModel) refresh() {
	m.snap = m.sess.Snapshot()
	if m.snap.Inferred > 0 {
		m.notice = fmt.Sprintf("%s %d answered from earlier choices", iconSuccess, m.snap.Inferred)
	}
}

func (m rankModel) Init() tea.Cmd {
	return waitForChange(m.sess)
}

func (m rankModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		if m.snap.Done {
			return m, tea.Quit
		}
		return m, waitForChange(m.sess)

	case doneMsg:
		m.refresh()
		return m, tea.Quit

	case importedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.notice = fmt.Sprintf("%s imported %s", iconSuccess, msg.summary)
			if n := len(msg.report.Invalid); n > 0 {
				m.notice += fmt.Sprintf(", %d unreadable lines", n)
			}
		}
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-30, 10), 60)
		return m, nil

	case tea.KeyMsg:
		if m.importing {
			return m.updateImport(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = !m.snap.Done
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.answer(pref.Left)
		case key.Matches(msg, m.keys.Right):
			m.answer(pref.Right)
		case key.Matches(msg, m.keys.Import):
			m.importing = true
			m.err = nil
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Clean):
			m.clean = !m.clean
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *rankModel) answer(dir pref.Direction) {
	if m.snap.Active == nil {
		return
	}
	if _, ok := m.sess.Resolve(dir); ok {
		m.notice = ""
		m.err = nil
	}
	m.refresh()
}

func (m rankModel) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.importing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		m.importing = false
		m.input.Blur()
		m.input.SetValue("")
		if path == "" {
			return m, nil
		}
		return m, importFile(m.ctx, m.sess, path, m.clean)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m rankModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d songs", m.snap.Strategy, len(m.snap.Items))))
	b.WriteString("\n\n")

	switch {
	case m.snap.Done:
		b.WriteString(StyleSuccess.Render("Ranking complete"))
	case m.snap.Active != nil:
		b.WriteString("Which do you prefer?\n\n")
		b.WriteString(m.cards(m.snap.Active.Left, m.snap.Active.Right))
	default:
		b.WriteString(StyleDim.Render("Working..."))
	}
	b.WriteString("\n\n")

	est := m.snap.Estimate
	percent := 0.0
	if est.WorstCase > 0 {
		percent = float64(est.Completed) / float64(est.WorstCase)
	}
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d of %s comparisons", est.Completed, bounds(est.BestCase, est.WorstCase))))
	b.WriteString("\n")

	if m.clean {
		b.WriteString(StyleDim.Render("clean import on"))
		b.WriteString("\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.importing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("enter import · esc cancel"))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}

func (m rankModel) cards(left, right string) string {
	width := max(lipgloss.Width(left), lipgloss.Width(right)) + 6
	l := cardStyle.Width(width).Render(cardTitleStyle.Render(left))
	r := cardStyle.Width(width).Render(cardTitleStyle.Render(right))
	or := StyleDim.Padding(0, 2).Render("or")
	return lipgloss.JoinHorizontal(lipgloss.Center, l, or, r)
}

// bounds formats an estimate range as "n" or "lo-hi".
func bounds(lo, hi int) string {
	if lo == hi {
		return fmt.Sprint(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// runRankTUI runs the comparison UI until the sort finishes or the user quits.
func runRankTUI(ctx context.Context, sess *session.Session, clean bool) (rankModel, error) {
	p := tea.NewProgram(newRankModel(ctx, sess, clean), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return rankModel{}, err
	}
	return final.(rankModel), nil
}
