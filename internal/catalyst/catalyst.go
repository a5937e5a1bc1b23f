// Package catalyst holds the closed set of supported ammonia-synthesis
// catalysts and their kinetic constants.
package catalyst

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCatalyst is returned when text does not name a supported catalyst.
var ErrUnknownCatalyst = errors.New("catalyst: unknown catalyst")

type Catalyst int

const (
	KMIR Catalyst = iota
	FN
)

// Constants are the kinetic parameters of one catalyst: activation energy
// (cal/mol), pre-exponential factor and the rate asymmetry exponent.
type Constants struct {
	Ea    float64 `json:"ea" yaml:"ea"`
	A     float64 `json:"a" yaml:"a"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

var table = map[Catalyst]Constants{
	KMIR: {Ea: 40131, A: 1.6066e+15, Alpha: 0.5},
	FN:   {Ea: 38007, A: 7.6683e+15, Alpha: 0.4},
}

var names = map[Catalyst]string{
	KMIR: "KMIR",
	FN:   "FN",
}

// All returns every supported catalyst in declaration order.
func All() []Catalyst {
	return []Catalyst{KMIR, FN}
}

// Lookup returns the kinetic constants of c.
func Lookup(c Catalyst) Constants {
	return table[c]
}

func (c Catalyst) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Catalyst(%d)", int(c))
}

// Parse matches text case-insensitively after trimming white space.
func Parse(text string) (Catalyst, error) {
	want := strings.TrimSpace(text)
	for _, c := range All() {
		if strings.EqualFold(names[c], want) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCatalyst, text)
}

func (c Catalyst) MarshalText() ([]byte, error) {
	if _, ok := names[c]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCatalyst, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Catalyst) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
