package qasm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxDenominator bounds the fractions of π FormatParam writes symbolically.
const maxDenominator = 16

// angleTolerance is how close a value must be to a fraction of π to be
// written as one.
const angleTolerance = 1e-10

// constants are the OpenQASM 3 angle constants, keyed by spelling.
var constants = map[string]float64{
	"pi":  math.Pi,
	"π":   math.Pi,
	"tau": 2 * math.Pi,
	"τ":   2 * math.Pi,
}

// angleRegex matches [-][coeff][*]const[/denom], e.g. pi, -3*pi/4, 2pi, tau/8.
var angleRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*(pi|π|tau|τ)(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseParam reads one angle: a float literal, or a multiple or fraction of
// pi or tau ("pi/2", "-3*pi/4", "2π", "tau/8"). Errors wrap ErrSyntax.
func ParseParam(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.Wrapf(ErrSyntax, "bad angle %q: not finite", s)
		}
		return v, nil
	}
	m := angleRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Wrapf(ErrSyntax, "bad angle %q", s)
	}

	v := constants[m[3]]
	if m[2] != "" {
		coeff, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, errors.Wrapf(ErrSyntax, "bad angle %q", s)
		}
		v *= coeff
	}
	if m[4] != "" {
		denom, err := strconv.ParseFloat(m[4], 64)
		if err != nil || denom == 0 {
			return 0, errors.Wrapf(ErrSyntax, "bad angle %q: zero denominator", s)
		}
		v /= denom
	}
	if m[1] == "-" {
		v = -v
	}
	return v, nil
}

// FormatParam writes an angle as k*pi/d in lowest terms when it is one, for
// d up to 16 and |k| up to 2d, and as the shortest float literal that reads
// back exactly otherwise.
func FormatParam(v float64) string {
	for d := 1; d <= maxDenominator; d++ {
		k := math.Round(v * float64(d) / math.Pi)
		if k == 0 || math.Abs(k) > float64(2*d) {
			continue
		}
		if math.Abs(v-k*math.Pi/float64(d)) < angleTolerance {
			return piFraction(int(k), d)
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func piFraction(k, d int) string {
	var sb strings.Builder
	if k < 0 {
		sb.WriteByte('-')
		k = -k
	}
	if k != 1 {
		sb.WriteString(strconv.Itoa(k))
		sb.WriteByte('*')
	}
	sb.WriteString("pi")
	if d != 1 {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(d))
	}
	return sb.String()
}
