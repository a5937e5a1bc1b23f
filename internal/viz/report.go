package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// Scenario names one simulated instance inside a report.
type Scenario struct {
	Name     string
	Instance *reactor.Instance
}

// Markdown builds the plain-text report of one or more finished scenarios.
// Charts are embedded as code blocks so the report stays readable without
// a markdown renderer.
func Markdown(scenarios []Scenario, opts ChartOptions) (string, error) {
	var b strings.Builder
	b.WriteString("# Ammonia converter report\n\n")

	if len(scenarios) > 1 {
		merged := scenarios[0].Instance.Ranges()
		for _, sc := range scenarios[1:] {
			merged = merged.Union(sc.Instance.Ranges())
		}
		if opts.Axis == nil {
			opts.Axis = &merged
		}
		b.WriteString("| scenario | catalyst | pressure | beds | length | NH3 yield |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|\n")
		for _, sc := range scenarios {
			s, err := sc.Instance.Summary()
			if err != nil {
				return "", fmt.Errorf("%s: %w", sc.Name, err)
			}
			fmt.Fprintf(&b, "| %s | %s | %.0f | %d | %.3f | %.4f |\n",
				sc.Name, sc.Instance.Catalyst(), sc.Instance.Pressure(), sc.Instance.BedCount(), s.TotalLength, s.Yield)
		}
		b.WriteString("\n")
	}

	for _, sc := range scenarios {
		if err := writeScenario(&b, sc, opts); err != nil {
			return "", fmt.Errorf("%s: %w", sc.Name, err)
		}
	}
	return b.String(), nil
}

func writeScenario(b *strings.Builder, sc Scenario, opts ChartOptions) error {
	inst := sc.Instance
	s, err := inst.Summary()
	if err != nil {
		return err
	}

	fmt.Fprintf(b, "## %s\n\n", sc.Name)
	fmt.Fprintf(b, "Catalyst **%s** at **%.0f atm**, final NH3 yield **%.4f** after a total length of %.3f.\n\n",
		inst.Catalyst(), inst.Pressure(), s.Yield, s.TotalLength)

	b.WriteString("| bed | start °C | slope | max °C | beta | length | outlet °C | outlet yield |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for i, bed := range inst.Beds() {
		r, err := inst.Result(i)
		if err != nil {
			return err
		}
		_, out := r.Last()
		fmt.Fprintf(b, "| %d | %.0f | %g | %.0f | %g | %.3f | %.1f | %.4f |\n",
			i+1, bed.TStart-reactor.KelvinOffset, bed.TSlope, bed.TMax-reactor.KelvinOffset, bed.Beta,
			s.BedLengths[i], out[physics.Temp]-reactor.KelvinOffset, reactor.Yield(out))
	}
	b.WriteString("\n")

	charts := []struct {
		title string
		plot  func(*reactor.Instance, ChartOptions) (string, error)
	}{
		{"Concentrations", ConcentrationChart},
		{"Temperature", TemperatureChart},
		{"Yield over temperature", YieldChart},
	}
	for _, c := range charts {
		chart, err := c.plot(inst, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "### %s\n\n```\n%s\n```\n\n", c.title, ansi.Strip(chart))
	}
	return nil
}

// RenderMarkdown styles md for a terminal of the given width.
func RenderMarkdown(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
