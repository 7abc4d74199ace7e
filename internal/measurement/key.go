package measurement

import "strings"

// Key identifies a body or garment measurement.
type Key string

const (
	Waist  Key = "waist"
	Height Key = "height"
	Hips   Key = "hips"
	Bust   Key = "bust"
	Inseam Key = "inseam"
	Shoes  Key = "shoes"
	Suit   Key = "suit"
	Dress  Key = "dress"
	Collar Key = "collar"
	Sleeve Key = "sleeve"
)

var keys = []Key{Waist, Height, Hips, Bust, Inseam, Shoes, Suit, Dress, Collar, Sleeve}

// Keys returns the known measurement keys in display order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// ParseKey normalizes s and reports whether it names a known key.
func ParseKey(s string) (Key, bool) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Known()
}

// Known reports whether k belongs to the closed key set.
func (k Key) Known() bool {
	for _, known := range keys {
		if k == known {
			return true
		}
	}
	return false
}

// Labels maps keys to human readable labels.
type Labels map[Key]string

// DefaultLabels returns a fresh copy of the built-in label table.
func DefaultLabels() Labels {
	return Labels{
		Waist:  "Waist",
		Height: "Height",
		Hips:   "Hips",
		Bust:   "Bust",
		Inseam: "Inseam",
		Shoes:  "Shoe Size",
		Suit:   "Suit Size",
		Dress:  "Dress Size",
		Collar: "Collar",
		Sleeve: "Sleeve",
	}
}

// Label returns the label for k, or the raw key when none is configured.
func (l Labels) Label(k Key) string {
	if label, ok := l[k]; ok && strings.TrimSpace(label) != "" {
		return label
	}
	return string(k)
}

// Merge returns a copy of l with overrides applied. Blank overrides are ignored.
func (l Labels) Merge(overrides map[string]string) Labels {
	out := make(Labels, len(l)+len(overrides))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range overrides {
		key := Key(strings.ToLower(strings.TrimSpace(k)))
		if key == "" || strings.TrimSpace(v) == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}
