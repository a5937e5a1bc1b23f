package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// viewYield is the page after the six state components.
const viewYield = physics.StateDim

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
)

// Viewer is an interactive browser over the trajectories of one or more
// simulated scenarios.
type Viewer struct {
	scenarios     []Scenario
	current       int
	page          int
	normalize     bool
	axis          *reactor.Ranges
	width, height int
	showHelp      bool
}

func NewViewer(scenarios []Scenario, axis *reactor.Ranges) Viewer {
	return Viewer{
		scenarios: scenarios,
		page:      physics.NH3,
		normalize: true,
		axis:      axis,
		width:     DefaultChartWidth + 12,
		height:    DefaultChartHeight + 10,
	}
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return v, tea.Quit
	case "right", "l":
		v.page = (v.page + 1) % (viewYield + 1)
	case "left", "h":
		v.page = (v.page + viewYield) % (viewYield + 1)
	case "tab":
		if len(v.scenarios) > 0 {
			v.current = (v.current + 1) % len(v.scenarios)
		}
	case "n":
		v.normalize = !v.normalize
	case "?":
		v.showHelp = !v.showHelp
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
			v.page = int(s[0] - '1')
		}
	}
	return v, nil
}

func (v Viewer) chartOptions() ChartOptions {
	w := v.width - 12
	if w < 20 {
		w = 20
	}
	h := v.height - 10
	if h < 5 {
		h = 5
	}
	return ChartOptions{Width: w, Height: h, Axis: v.axis}
}

func (v Viewer) View() string {
	if len(v.scenarios) == 0 {
		return ErrorStyle.Render("nothing to show") + "\n"
	}
	sc := v.scenarios[v.current]

	var b strings.Builder
	b.WriteString(GradientTitle.Render("HABERSIM") + "  " + Subtle.Render(fmt.Sprintf("%s  %s @ %.0f atm", sc.Name, sc.Instance.Catalyst(), sc.Instance.Pressure())) + "\n\n")
	b.WriteString(v.tabs() + "\n\n")

	var (
		chart string
		err   error
	)
	if v.page == viewYield {
		chart, err = YieldChart(sc.Instance, v.chartOptions())
	} else {
		chart, err = ComponentChart(sc.Instance, v.page, v.normalize, v.chartOptions())
	}
	if err != nil {
		b.WriteString(ErrorStyle.Render(err.Error()) + "\n")
	} else {
		b.WriteString(chart + "\n")
	}

	if s, err := sc.Instance.Summary(); err == nil {
		b.WriteString("\n" + MetricLabel.Render("NH3 yield") + MetricValue.Render(fmt.Sprintf("%.4f", s.Yield)) +
			"   " + MetricLabel.Render("length") + MetricValue.Render(fmt.Sprintf("%.3f", s.TotalLength)) + "\n")
	}

	b.WriteString("\n" + v.help() + "\n")
	return b.String()
}

func (v Viewer) tabs() string {
	parts := make([]string, 0, viewYield+1)
	for i := 0; i <= viewYield; i++ {
		name := "yield"
		if i < viewYield {
			name = ComponentNames[i]
		}
		if i == v.page {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (v Viewer) help() string {
	if !v.showHelp {
		return KeyHint.Render("h/l page  n normalize  tab scenario  ? help  q quit")
	}
	norm := "off"
	if v.normalize {
		norm = "on"
	}
	lines := []string{
		"h/l, left/right   previous/next page",
		"1-7               jump to page",
		"n                 toggle normalization (" + norm + ")",
		"tab               next scenario",
		"q, esc            quit",
	}
	return KeyHint.Render(strings.Join(lines, "\n"))
}

// RunViewer opens the viewer full screen until the user quits.
func RunViewer(scenarios []Scenario, axis *reactor.Ranges) error {
	_, err := tea.NewProgram(NewViewer(scenarios, axis), tea.WithAltScreen()).Run()
	return err
}
