package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

const (
	DefaultChartWidth  = 72
	DefaultChartHeight = 14
)

// ChartOptions controls size and scaling of the ASCII charts. A nil Axis
// scales every chart to the data it shows.
type ChartOptions struct {
	Width  int
	Height int
	Axis   *reactor.Ranges
}

func (o ChartOptions) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultChartWidth
	}
	if h <= 0 {
		h = DefaultChartHeight
	}
	return w, h
}

// ComponentNames labels the state components in charts and reports.
var ComponentNames = [physics.StateDim]string{"N2", "H2", "NH3", "Ar", "CH4", "T"}

// Resample evaluates the piecewise-linear curve through pts at n evenly
// spaced positions of xr. Positions outside the data repeat the nearest
// end value. pts must be sorted by X; duplicated X at bed boundaries keep
// the later sample.
func Resample(pts []reactor.Point, xr reactor.Range, n int) []float64 {
	if len(pts) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	j := 0
	for i := range out {
		x := xr.Min
		if n > 1 {
			x += xr.Span() * float64(i) / float64(n-1)
		}
		for j < len(pts)-1 && pts[j+1].X <= x {
			j++
		}
		switch {
		case x <= pts[0].X:
			out[i] = pts[0].Y
		case j == len(pts)-1:
			out[i] = pts[j].Y
		default:
			a, b := pts[j], pts[j+1]
			t := (x - a.X) / (b.X - a.X)
			out[i] = a.Y + t*(b.Y-a.Y)
		}
	}
	return out
}

func collect(inst *reactor.Instance, component int, normalize bool) ([]reactor.Point, error) {
	s, err := inst.Series(component, normalize)
	if err != nil {
		return nil, err
	}
	return s.Collect(), nil
}

// ConcentrationChart plots the normalized N2, H2 and NH3 fractions along
// the reactor.
func ConcentrationChart(inst *reactor.Instance, opts ChartOptions) (string, error) {
	if inst.ResultCount() == 0 {
		return "", reactor.ErrNoResults
	}
	w, h := opts.size()
	ranges := inst.Ranges()
	if opts.Axis != nil {
		ranges = *opts.Axis
	}

	comps := []int{physics.N2, physics.H2, physics.NH3}
	data := make([][]float64, 0, len(comps))
	for _, c := range comps {
		pts, err := collect(inst, c, true)
		if err != nil {
			return "", err
		}
		data = append(data, Resample(pts, ranges.X, w))
	}

	theme := CurrentTheme
	chart := asciigraph.PlotMany(data,
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.LowerBound(ranges.Concentration.Min),
		asciigraph.UpperBound(ranges.Concentration.Max),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(theme.Series[0], theme.Series[1], theme.Series[2]),
		asciigraph.Caption(xCaption("mole fraction", ranges.X)),
	)
	return chart + "\n" + legend(comps), nil
}

// TemperatureChart plots the bed temperatures in °C along the reactor.
func TemperatureChart(inst *reactor.Instance, opts ChartOptions) (string, error) {
	if inst.ResultCount() == 0 {
		return "", reactor.ErrNoResults
	}
	w, h := opts.size()
	ranges := inst.Ranges()
	if opts.Axis != nil {
		ranges = *opts.Axis
	}

	pts, err := collect(inst, physics.Temp, false)
	if err != nil {
		return "", err
	}
	return asciigraph.Plot(Resample(pts, ranges.X, w),
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.LowerBound(ranges.Temperature.Min),
		asciigraph.UpperBound(ranges.Temperature.Max),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(CurrentTheme.Series[3]),
		asciigraph.Caption(xCaption("temperature °C", ranges.X)),
	), nil
}

// YieldChart plots the ammonia yield over temperature. Successive beds
// appear as separate runs towards the equilibrium line.
func YieldChart(inst *reactor.Instance, opts ChartOptions) (string, error) {
	curve := inst.YieldCurve()
	if len(curve) == 0 {
		return "", reactor.ErrNoResults
	}
	w, h := opts.size()

	tr := inst.TemperatureRange()
	if opts.Axis != nil {
		tr = opts.Axis.Temperature
	}

	// bin by temperature and keep the best yield reached in each column
	cols := make([]float64, w)
	seen := make([]bool, w)
	for _, p := range curve {
		i := 0
		if tr.Span() > 0 {
			i = int((p.X - tr.Min) / tr.Span() * float64(w-1))
		}
		if i < 0 || i >= w {
			continue
		}
		if !seen[i] || p.Y > cols[i] {
			cols[i] = p.Y
			seen[i] = true
		}
	}
	fillGaps(cols, seen)

	return asciigraph.Plot(cols,
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.LowerBound(0),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(CurrentTheme.Series[2]),
		asciigraph.Caption(fmt.Sprintf("NH3 yield over temperature %.0f..%.0f °C", tr.Min, tr.Max)),
	), nil
}

// fillGaps carries the last seen value into empty columns.
func fillGaps(vals []float64, seen []bool) {
	last := 0.0
	for i := range vals {
		if seen[i] {
			last = vals[i]
			continue
		}
		vals[i] = last
	}
}

func xCaption(what string, xr reactor.Range) string {
	return fmt.Sprintf("%s over x = %.2f..%.2f", what, xr.Min, xr.Max)
}

func legend(comps []int) string {
	parts := make([]string, len(comps))
	for i, c := range comps {
		dot := lipgloss.NewStyle().Foreground(CurrentTheme.Lines[i%len(CurrentTheme.Lines)]).Render("■")
		parts[i] = dot + " " + ComponentNames[c]
	}
	return "  " + strings.Join(parts, "   ")
}

// ComponentChart plots a single state component along the reactor. Gas
// components are raw partial values unless normalize is set; the
// temperature is always in °C.
func ComponentChart(inst *reactor.Instance, component int, normalize bool, opts ChartOptions) (string, error) {
	pts, err := collect(inst, component, normalize)
	if err != nil {
		return "", err
	}
	if len(pts) == 0 {
		return "", reactor.ErrNoResults
	}
	w, h := opts.size()

	xr := inst.XRange()
	if opts.Axis != nil {
		xr = opts.Axis.X
	}
	plotOpts := []asciigraph.Option{
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(CurrentTheme.Series[component%len(CurrentTheme.Series)]),
	}

	label := ComponentNames[component]
	switch {
	case component == physics.Temp:
		label += " °C"
		if opts.Axis != nil {
			plotOpts = append(plotOpts,
				asciigraph.LowerBound(opts.Axis.Temperature.Min),
				asciigraph.UpperBound(opts.Axis.Temperature.Max))
		}
	case normalize:
		label += " mole fraction"
		plotOpts = append(plotOpts, asciigraph.LowerBound(0))
		if opts.Axis != nil && component <= physics.NH3 {
			plotOpts = append(plotOpts, asciigraph.UpperBound(opts.Axis.Concentration.Max))
		}
	default:
		label += " partial pressure"
	}
	plotOpts = append(plotOpts, asciigraph.Caption(xCaption(label, xr)))

	return asciigraph.Plot(Resample(pts, xr, w), plotOpts...), nil
}
