package measurement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Unit is the unit of a structured measurement value.
type Unit string

const (
	Inches      Unit = "in"
	Centimeters Unit = "cm"
	Feet        Unit = "ft"
)

type kind uint8

const (
	kindAbsent kind = iota
	kindNumber
	kindText
	kindStructured
)

// Value is a raw measurement as entered by a person: a number, a free-form
// string, or a number with an explicit unit. The zero Value is absent.
type Value struct {
	kind kind
	num  float64
	text string
	unit Unit
}

func Number(v float64) Value { return Value{kind: kindNumber, num: v} }

func Text(s string) Value { return Value{kind: kindText, text: s} }

func Structured(unit Unit, v float64) Value {
	return Value{kind: kindStructured, num: v, unit: Unit(strings.ToLower(strings.TrimSpace(string(unit))))}
}

// IsAbsent reports whether v carries no raw input at all.
func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

// String renders the raw input, mostly for logs and tables.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	case kindStructured:
		return strconv.FormatFloat(v.num, 'f', -1, 64) + string(v.unit)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return json.Marshal(v.num)
	case kindText:
		return json.Marshal(v.text)
	case kindStructured:
		return json.Marshal(struct {
			Unit  Unit    `json:"unit"`
			Value float64 `json:"value"`
		}{v.unit, v.num})
	default:
		return []byte("null"), nil
	}
}

// FromAny converts a decoded document value into a Value. Accepted shapes are
// nil, Go numbers, strings, an existing Value and a {unit, value} mapping.
func FromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return typed, nil
	case string:
		return Text(typed), nil
	case map[string]any:
		return structuredFromMap(typed)
	case map[any]any:
		m := make(map[string]any, len(typed))
		for k, val := range typed {
			m[fmt.Sprint(k)] = val
		}
		return structuredFromMap(m)
	}

	if f, ok := toFloat(raw); ok {
		return Number(f), nil
	}

	return Value{}, fmt.Errorf("unsupported measurement value of type %T", raw)
}

func structuredFromMap(m map[string]any) (Value, error) {
	unit, _ := m["unit"].(string)
	switch raw := m["value"].(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("structured measurement value %q: %w", raw, err)
		}
		return Structured(Unit(unit), f), nil
	default:
		f, ok := toFloat(raw)
		if !ok {
			return Value{}, fmt.Errorf("structured measurement requires a numeric value, got %T", raw)
		}
		return Structured(Unit(unit), f), nil
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
