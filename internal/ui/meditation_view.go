package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"guardmind/internal/wellness"
)

type meditationKeys struct {
	Toggle key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func (k meditationKeys) ShortHelp() []key.Binding { return []key.Binding{k.Toggle, k.Reset, k.Quit} }

func (k meditationKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type meditationTickMsg time.Time

// MeditationModel is the guided meditation timer. Elapsed time only grows
// while the timer is running.
type MeditationModel struct {
	content *wellness.Content
	theme   Theme
	ascii   bool
	keys    meditationKeys
	help    help.Model
	bar     progress.Model

	running  bool
	elapsed  time.Duration
	lastTick time.Time
	now      func() time.Time
	quitting bool
}

func NewMeditation(content *wellness.Content, opts Options) *MeditationModel {
	theme := ThemeForVariant(opts.StyleVariant)
	return &MeditationModel{
		content: content,
		theme:   theme,
		ascii:   opts.ASCIIOnly,
		keys: meditationKeys{
			Toggle: key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "start/pause")),
			Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
			Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "finish")),
		},
		help: help.New(),
		bar:  progress.New(progress.WithGradient(theme.BarFrom, theme.BarTo), progress.WithWidth(30), progress.WithoutPercentage()),
		now:  time.Now,
	}
}

func (m *MeditationModel) Init() tea.Cmd { return nil }

// Elapsed is the meditated time so far.
func (m *MeditationModel) Elapsed() time.Duration { return m.elapsed }

func (m *MeditationModel) Running() bool { return m.running }

func (m *MeditationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case meditationTickMsg:
		if !m.running {
			return m, nil
		}
		m.advance(time.Time(msg))
		return m, meditationTick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.running {
				m.advance(m.now())
				m.running = false
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.running {
				m.advance(m.now())
				m.running = false
				return m, nil
			}
			m.running = true
			m.lastTick = m.now()
			return m, meditationTick()
		case key.Matches(msg, m.keys.Reset):
			m.running = false
			m.elapsed = 0
		}
	}
	return m, nil
}

func (m *MeditationModel) advance(at time.Time) {
	if at.After(m.lastTick) {
		m.elapsed += at.Sub(m.lastTick)
	}
	m.lastTick = at
}

func meditationTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return meditationTickMsg(t) })
}

func (m *MeditationModel) View() string {
	if m.quitting {
		return ""
	}
	idx, step := m.content.StepAt(m.elapsed)
	var into time.Duration
	for i := 0; i < idx; i++ {
		into += time.Duration(m.content.Meditation[i].Seconds) * time.Second
	}
	if cycle := m.content.CycleLength(); cycle > 0 {
		into = m.elapsed%cycle - into
	}
	pct := 0.0
	if step.Seconds > 0 {
		pct = clampUnit(into.Seconds() / float64(step.Seconds))
	}

	state := m.theme.Pending.Render("paused")
	if m.running {
		state = m.theme.Pass.Render("breathing")
	}
	body := strings.Join([]string{
		m.theme.Accent.Render(step.Instruction),
		"",
		m.bar.ViewAs(pct),
		fmt.Sprintf("Step %d of %d", idx+1, len(m.content.Meditation)),
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Header.Render("Guided Meditation  "+wellness.FormatDuration(m.elapsed)+"  ")+state,
		drawPanel(m.theme, "Breathe", body, m.ascii),
		m.help.View(m.keys),
	)
}

// RunMeditation runs the timer and returns the meditated time.
func RunMeditation(m *MeditationModel, opts ...tea.ProgramOption) (time.Duration, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return m.Elapsed(), err
	}
	return m.Elapsed(), nil
}
