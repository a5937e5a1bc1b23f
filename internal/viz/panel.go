package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// SummaryPanel renders the key figures of a simulated instance as a
// bordered terminal panel.
func SummaryPanel(title string, inst *reactor.Instance) (string, error) {
	s, err := inst.Summary()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(GradientTitle.Render(title) + "\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("%s catalyst at %.0f atm, %d beds", inst.Catalyst(), inst.Pressure(), inst.BedCount())) + "\n\n")

	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("NH3 yield", fmt.Sprintf("%.4f", s.Yield))
	row("total length", fmt.Sprintf("%.3f", s.TotalLength))
	tr := inst.TemperatureRange()
	row("temperature", fmt.Sprintf("%.1f .. %.1f °C", tr.Min, tr.Max))
	b.WriteString("\n")

	beds := inst.Beds()
	for i, l := range s.BedLengths {
		share := 0.0
		if s.TotalLength > 0 {
			share = l / s.TotalLength
		}
		label := fmt.Sprintf("bed %d  %3.0f°C", i+1, beds[i].TStart-reactor.KelvinOffset)
		b.WriteString(MetricLabel.Render(label) + ProgressBar(share, 24) + Subtle.Render(fmt.Sprintf(" %.3f", l)) + "\n")
	}

	nh3, err := collect(inst, physics.NH3, true)
	if err != nil {
		return "", err
	}
	vals := make([]float64, len(nh3))
	for i, p := range nh3 {
		vals[i] = p.Y
	}
	b.WriteString("\n" + MetricLabel.Render("NH3 profile") + SparklineChart(vals, 32) + "\n")

	return GlassPanel.Render(b.String()), nil
}

// SideBySide joins panels horizontally with a gap.
func SideBySide(panels ...string) string {
	parts := make([]string, 0, 2*len(panels))
	for i, p := range panels {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, p)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
