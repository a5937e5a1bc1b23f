package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/viz"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400
	background    = "#0a0a0a"
)

// Options sizes an SVG profile. A nil Axis scales to the instance's own
// ranges.
type Options struct {
	Width  int
	Height int
	Axis   *reactor.Ranges
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (o Options) ranges(inst *reactor.Instance) reactor.Ranges {
	if o.Axis != nil {
		return *o.Axis
	}
	return inst.Ranges()
}

type curve struct {
	points []reactor.Point
	color  string
}

// ConcentrationSVG plots the N2, H2 and NH3 mole fractions over the
// reactor length, one path per gas.
func ConcentrationSVG(inst *reactor.Instance, opts Options) (string, error) {
	if inst.ResultCount() == 0 {
		return "", reactor.ErrNoResults
	}
	r := opts.ranges(inst)

	comps := []int{physics.N2, physics.H2, physics.NH3}
	curves := make([]curve, 0, len(comps))
	for i, c := range comps {
		s, err := inst.Series(c, true)
		if err != nil {
			return "", err
		}
		curves = append(curves, curve{points: s.Collect(), color: string(viz.CurrentTheme.Lines[i])})
	}

	w, h := opts.size()
	return plot(curves, r.X, r.Concentration, w, h), nil
}

// TemperatureSVG plots the gas temperature in °C over the reactor length.
func TemperatureSVG(inst *reactor.Instance, opts Options) (string, error) {
	if inst.ResultCount() == 0 {
		return "", reactor.ErrNoResults
	}
	r := opts.ranges(inst)

	s, err := inst.Series(physics.Temp, false)
	if err != nil {
		return "", err
	}

	w, h := opts.size()
	return plot([]curve{{points: s.Collect(), color: string(viz.CurrentTheme.Lines[3])}}, r.X, r.Temperature, w, h), nil
}

// plot draws every curve into one SVG document. A point that does not
// advance x starts a new subpath, which splits the curves at bed
// boundaries.
func plot(curves []curve, xr, yr reactor.Range, width, height int) string {
	rangeX := xr.Span()
	rangeY := yr.Span()
	if rangeX <= 0 {
		rangeX = 1
	}
	if rangeY <= 0 {
		rangeY = 1
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for _, c := range curves {
		if len(c.points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, c.color))
		for i, p := range c.points {
			x := (p.X - xr.Min) / rangeX * float64(width)
			y := float64(height) - (p.Y-yr.Min)/rangeY*float64(height)

			if i == 0 || p.X <= c.points[i-1].X {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
