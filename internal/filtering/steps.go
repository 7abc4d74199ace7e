package filtering

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
)

// Steps builds one filter per constrained dimension of filters. Dimensions
// without a constraint produce no step.
func Steps(filters talent.SearchFilters) []Filter {
	var steps []Filter

	if q := strings.TrimSpace(filters.Query); q != "" {
		steps = append(steps, NewQuery(q))
	}
	if g := strings.TrimSpace(filters.Gender); g != "" {
		steps = append(steps, NewGender(g))
	}
	if a := strings.TrimSpace(filters.Agency); a != "" {
		steps = append(steps, NewAgency(a))
	}
	if ranges := NewMeasurementRanges(filters.MeasurementRanges); ranges != nil {
		steps = append(steps, ranges)
	}
	if filters.HasCastingHistory != nil {
		steps = append(steps, NewCastingHistory(*filters.HasCastingHistory))
	}

	return steps
}

type queryFilter struct {
	query string
}

// NewQuery creates a filter that keeps records whose name or agency contains
// query, ignoring case.
func NewQuery(query string) Filter {
	return &queryFilter{query: strings.ToLower(query)}
}

func (f *queryFilter) Name() string { return "query" }

func (f *queryFilter) Match(rec *talent.Record) bool {
	if f.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Name), f.query) ||
		strings.Contains(strings.ToLower(rec.Agency), f.query)
}

func (f *queryFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{"query": f.query}}
}

type categoryFilter struct {
	name  string
	want  string
	field func(*talent.Record) string
}

// NewGender creates a filter on the talent gender, ignoring case.
func NewGender(gender string) Filter {
	return &categoryFilter{name: "gender", want: gender, field: func(r *talent.Record) string { return r.Gender }}
}

// NewAgency creates a filter on the talent agency, ignoring case.
func NewAgency(agency string) Filter {
	return &categoryFilter{name: "agency", want: agency, field: func(r *talent.Record) string { return r.Agency }}
}

func (f *categoryFilter) Name() string { return f.name }

func (f *categoryFilter) Match(rec *talent.Record) bool {
	got := f.field(rec)
	if got == "" {
		return false
	}
	return strings.EqualFold(got, f.want)
}

func (f *categoryFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{f.name: f.want}}
}

type rangesFilter struct {
	ranges map[measurement.Key]talent.Range
}

// NewMeasurementRanges creates a filter that requires each constrained
// measurement to parse and fall inside its range. Ranges with neither bound
// are dropped; nil is returned when nothing is left.
func NewMeasurementRanges(ranges map[measurement.Key]talent.Range) Filter {
	active := make(map[measurement.Key]talent.Range, len(ranges))
	for key, rng := range ranges {
		if rng.Active() {
			active[key] = rng
		}
	}
	if len(active) == 0 {
		return nil
	}
	return &rangesFilter{ranges: active}
}

func (f *rangesFilter) Name() string { return "measurements" }

func (f *rangesFilter) Match(rec *talent.Record) bool {
	for key, rng := range f.ranges {
		v, ok := rec.ParsedMeasurement(key)
		if !ok || !rng.Contains(v) {
			return false
		}
	}
	return true
}

func (f *rangesFilter) Status() Status {
	keys := make([]string, 0, len(f.ranges))
	for key := range f.ranges {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	details := make(map[string]string, len(keys))
	for _, key := range keys {
		details[key] = formatRange(f.ranges[measurement.Key(key)])
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type castingHistoryFilter struct {
	want bool
}

// NewCastingHistory creates a filter on whether the talent attended any casting.
func NewCastingHistory(want bool) Filter {
	return &castingHistoryFilter{want: want}
}

func (f *castingHistoryFilter) Name() string { return "casting_history" }

func (f *castingHistoryFilter) Match(rec *talent.Record) bool {
	return rec.HasCastingHistory() == f.want
}

func (f *castingHistoryFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"has_casting_history": strconv.FormatBool(f.want)},
	}
}

// ExtractUniqueAgencies returns every distinct non-empty agency, sorted.
func ExtractUniqueAgencies(records []*talent.Record) []string {
	seen := make(map[string]struct{})
	agencies := make([]string, 0)
	for _, rec := range records {
		if rec == nil || strings.TrimSpace(rec.Agency) == "" {
			continue
		}
		if _, ok := seen[rec.Agency]; ok {
			continue
		}
		seen[rec.Agency] = struct{}{}
		agencies = append(agencies, rec.Agency)
	}
	sort.Strings(agencies)
	return agencies
}

func formatRange(r talent.Range) string {
	bound := func(v *float64) string {
		if v == nil {
			return "*"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return fmt.Sprintf("%s..%s", bound(r.Min), bound(r.Max))
}
