package measurement

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const cmPerInch = 2.54

// Notations are tried in this order; the first structural match decides the
// result even when its value is rejected.
var (
	feetInchesRE = regexp.MustCompile(`^(\d+)\s*['’′]\s*(\d+)\s*["”″]?$`)
	inchesRE     = regexp.MustCompile(`^(\d+(?:\.\d+)?)["”″]$`)
	centimeterRE = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*cm$`)
	cutSuffixRE  = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)(XL|XS|R|L|S)$`)
	plainRE      = regexp.MustCompile(`^(?:\d+(?:\.\d+)?|\.\d+)$`)
)

// Parse converts a raw measurement into inches (or the unitless size for
// shoes, suits and dresses). It never fails loudly: anything it cannot read
// yields ok == false.
func Parse(v Value) (float64, bool) {
	switch v.kind {
	case kindNumber:
		return finite(v.num)
	case kindText:
		return ParseString(v.text)
	case kindStructured:
		return parseStructured(v.unit, v.num)
	default:
		return 0, false
	}
}

// ParseAny is Parse for values that have not been wrapped into a Value yet.
func ParseAny(raw any) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	if s, ok := raw.(string); ok {
		return ParseString(s)
	}
	v, err := FromAny(raw)
	if err != nil {
		return 0, false
	}
	return Parse(v)
}

// ParseString reads one of the supported notations: 5'9", 34", 175cm, 40R or
// a plain decimal.
func ParseString(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if m := feetInchesRE.FindStringSubmatch(s); m != nil {
		feet, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		inches, err := strconv.Atoi(m[2])
		if err != nil || inches >= 12 {
			return 0, false
		}
		return float64(feet*12 + inches), true
	}

	if m := inchesRE.FindStringSubmatch(s); m != nil {
		return parseFloat(m[1])
	}

	if m := centimeterRE.FindStringSubmatch(s); m != nil {
		cm, ok := parseFloat(m[1])
		if !ok {
			return 0, false
		}
		return centimetersToInches(cm), true
	}

	if m := cutSuffixRE.FindStringSubmatch(s); m != nil {
		return parseFloat(m[1])
	}

	if plainRE.MatchString(s) {
		return parseFloat(s)
	}

	return 0, false
}

func parseStructured(unit Unit, v float64) (float64, bool) {
	if _, ok := finite(v); !ok {
		return 0, false
	}
	switch unit {
	case Inches, "":
		return v, true
	case Centimeters:
		return centimetersToInches(v), true
	case Feet:
		return v * 12, true
	default:
		return 0, false
	}
}

func centimetersToInches(cm float64) float64 {
	return math.Round(cm/cmPerInch*10) / 10
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
