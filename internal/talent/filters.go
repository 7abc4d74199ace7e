package talent

import (
	"github.com/ted-design/talentmatch/internal/measurement"
)

// Range is an inclusive numeric interval; a nil bound is unbounded.
type Range struct {
	Min *float64 `json:"min" yaml:"min"`
	Max *float64 `json:"max" yaml:"max"`
}

// Between builds a range with both bounds set.
func Between(lo, hi float64) Range {
	return Range{Min: &lo, Max: &hi}
}

// AtLeast builds a range with only a lower bound.
func AtLeast(lo float64) Range {
	return Range{Min: &lo}
}

// AtMost builds a range with only an upper bound.
func AtMost(hi float64) Range {
	return Range{Max: &hi}
}

// Active reports whether the range constrains anything.
func (r Range) Active() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether v satisfies both present bounds.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// SearchFilters narrows a roster. Zero fields impose no constraint.
type SearchFilters struct {
	Query             string                    `json:"query,omitempty"`
	Gender            string                    `json:"gender,omitempty"`
	Agency            string                    `json:"agency,omitempty"`
	MeasurementRanges map[measurement.Key]Range `json:"measurementRanges,omitempty"`
	HasCastingHistory *bool                     `json:"hasCastingHistory,omitempty"`
}

// EmptyTalentFilters matches every record. Copy it and set fields to build a
// filter incrementally.
var EmptyTalentFilters = SearchFilters{}

// IsEmpty reports whether f constrains nothing.
func (f SearchFilters) IsEmpty() bool {
	if f.Query != "" || f.Gender != "" || f.Agency != "" || f.HasCastingHistory != nil {
		return false
	}
	for _, r := range f.MeasurementRanges {
		if r.Active() {
			return false
		}
	}
	return true
}

// Merge returns f with every non-zero field of patch applied on top.
func (f SearchFilters) Merge(patch SearchFilters) SearchFilters {
	out := f
	if patch.Query != "" {
		out.Query = patch.Query
	}
	if patch.Gender != "" {
		out.Gender = patch.Gender
	}
	if patch.Agency != "" {
		out.Agency = patch.Agency
	}
	if patch.MeasurementRanges != nil {
		out.MeasurementRanges = patch.MeasurementRanges
	}
	if patch.HasCastingHistory != nil {
		out.HasCastingHistory = patch.HasCastingHistory
	}
	return out
}
