package physics

import (
	"math"

	"github.com/san-kum/habersim/internal/dynamo"
)

// Fugacity returns the per-component correction vector applied to the raw
// derivatives at temperature t (K) and pressure p (atm). Inert components
// and temperature are left uncorrected.
func Fugacity(t, p float64) dynamo.State {
	return dynamo.State{
		FugacityN2(t, p),
		FugacityH2(t, p),
		FugacityNH3(t, p),
		1,
		1,
		1,
	}
}

func FugacityN2(t, p float64) float64 {
	return 0.93431737 + 0.3101804e-3*t + 0.295896e-3*p - 0.2707279e-6*t*t + 0.4775207e-6*p*p
}

func FugacityH2(t, p float64) float64 {
	return math.Exp(math.Exp(-3.8402*math.Pow(t, 0.125)+0.541)*p -
		math.Exp(-0.1263*math.Pow(t, 0.5)-15.980)*p*p +
		300*math.Exp(-0.011901*t-5.941)*(math.Exp(-p/300)-1))
}

func FugacityNH3(t, p float64) float64 {
	return 0.1438996 + 0.2028538e-2*t - 0.4487672e-3*p - 0.1142945e-5*t*t + 0.2761216e-6*p*p
}
