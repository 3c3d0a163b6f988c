package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/dynamo"
)

var presetInfo = map[string]string{
	"butterfly": "one particle, classic wings",
	"twins":     "two particles 1e-5 apart",
	"swarm":     "eight particles on a ring",
	"moon":      "rho 99.96 periodic orbit",
	"calm":      "rho 14, spirals to rest",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable setting on the config screen.
type field struct {
	name   string
	get    func(*config.Config) string
	adjust func(*config.Config, int)
}

var fields = []field{
	{
		name: "set",
		get:  func(c *config.Config) string { return c.ParameterSet },
		adjust: func(c *config.Config, dir int) {
			names := dynamo.ParameterSetNames()
			i := 0
			for j, n := range names {
				if n == c.ParameterSet {
					i = j
				}
			}
			c.ParameterSet = names[(i+dir+len(names))%len(names)]
			c.Params = nil
		},
	},
	{
		name: "dt",
		get:  func(c *config.Config) string { return fmt.Sprintf("%.4f", c.Dt) },
		adjust: func(c *config.Config, dir int) {
			if dir > 0 {
				c.Dt *= 2
			} else {
				c.Dt /= 2
			}
		},
	},
	{
		name: "points",
		get:  func(c *config.Config) string { return fmt.Sprintf("%d", c.MaxPoints) },
		adjust: func(c *config.Config, dir int) {
			if dir > 0 {
				c.MaxPoints *= 2
			} else {
				c.MaxPoints = max(c.MaxPoints/2, 1)
			}
		},
	},
	{
		name: "repeats",
		get:  func(c *config.Config) string { return fmt.Sprintf("%d", c.NumRepeats) },
		adjust: func(c *config.Config, dir int) {
			c.NumRepeats = max(c.NumRepeats+dir, 1)
		},
	},
}

type app struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	fieldCursor   int
	err           error
	opts          Options
	liveModel     Model
}

// NewInteractiveApp shows the preset menu and starts a live view for the
// chosen preset. base supplies display and timing settings.
func NewInteractiveApp(base *config.Config, opts Options) *app {
	if base == nil {
		base = config.DefaultConfig()
	}
	return &app{
		state:   stateMenu,
		presets: config.ListPresets(),
		cfg:     base,
		opts:    opts,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		preset := config.GetPreset(m.selected)
		preset.AnimateInterval = m.cfg.AnimateInterval
		preset.FPS = m.cfg.FPS
		preset.Theme = m.cfg.Theme
		m.cfg = preset
		m.state, m.fieldCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "left", "h":
		fields[m.fieldCursor].adjust(m.cfg, -1)
	case "right", "l":
		fields[m.fieldCursor].adjust(m.cfg, 1)
	case "s", "enter":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *app) start() tea.Cmd {
	ticker, err := m.cfg.NewTicker()
	if err != nil {
		m.err = err
		return nil
	}
	opts := m.opts
	opts.Title = m.selected
	if opts.FPS == 0 {
		opts.FPS = m.cfg.FPS
	}
	if opts.Theme == "" {
		opts.Theme = m.cfg.Theme
	}
	m.liveModel = NewModel(ticker, opts)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuArrow    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuFaded    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	menuErr      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuInactive.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("LORENZTRAIL") + "\n    " + menuSub.Render("lorenz attractor trails") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuArrow.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuInactive.Render(fmt.Sprintf("  %-12s", name)), menuFaded.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(presetInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, f := range fields {
		val := fmt.Sprintf("%10s", f.get(m.cfg))
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuArrow.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", f.name)), menuDesc.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuInactive.Render(fmt.Sprintf("  %-10s", f.name)), menuFaded.Render(val)))
		}
	}
	b.WriteString(fmt.Sprintf("\n    %s\n", menuFaded.Render(fmt.Sprintf("%d particle(s)", len(m.cfg.InitialConditions)))))
	if m.err != nil {
		b.WriteString("\n    " + menuErr.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive runs the preset menu until the user quits.
func RunInteractive(base *config.Config, opts Options) error {
	_, err := tea.NewProgram(NewInteractiveApp(base, opts), tea.WithAltScreen()).Run()
	return err
}
