package matching

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
)

// DefaultTolerance is the distance past a bound at which a measurement stops
// scoring, used when a requirement has no usable width of its own.
const DefaultTolerance = 2.0

// FieldDetail explains how one required measurement scored.
type FieldDetail struct {
	Key         measurement.Key `json:"key"`
	Label       string          `json:"label"`
	ParsedValue *float64        `json:"parsedValue"`
	Ratio       float64         `json:"ratio"`
	Min         *float64        `json:"min,omitempty"`
	Max         *float64        `json:"max,omitempty"`
}

// Measured reports whether the talent had a usable value for the field.
func (d FieldDetail) Measured() bool { return d.ParsedValue != nil }

// Result is the outcome of scoring one talent against one brief.
type Result struct {
	GenderMatch        bool          `json:"genderMatch"`
	OverallScore       float64       `json:"overallScore"`
	MeasuredFieldCount int           `json:"measuredFieldCount"`
	RequiredFieldCount int           `json:"requiredFieldCount"`
	FieldDetails       []FieldDetail `json:"fieldDetails"`
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTolerance sets the fallback tolerance. Non-positive or non-finite values
// are ignored.
func WithTolerance(tolerance float64) Option {
	return func(s *Scorer) {
		if tolerance > 0 && !math.IsInf(tolerance, 1) {
			s.tolerance = tolerance
		}
	}
}

// Scorer compares talent measurements against casting briefs. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	labels    measurement.Labels
	tolerance float64
}

// NewScorer creates a scorer using the given label table. The table is copied;
// nil selects the built-in labels.
func NewScorer(labels measurement.Labels, opts ...Option) *Scorer {
	if labels == nil {
		labels = measurement.DefaultLabels()
	}
	s := &Scorer{
		labels:    labels.Merge(nil),
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScorer = NewScorer(nil)

// ComputeMatchScore scores rec against brief with the built-in labels and tolerance.
func ComputeMatchScore(rec *talent.Record, brief talent.Brief) Result {
	return defaultScorer.Score(rec, brief)
}

// Tolerance returns the fallback tolerance in use.
func (s *Scorer) Tolerance() float64 { return s.tolerance }

// Score compares rec against brief. Requirements without bounds are ignored.
// A gender mismatch scores 0 but still reports field details.
func (s *Scorer) Score(rec *talent.Record, brief talent.Brief) Result {
	active := brief.Requirements.Active()
	res := Result{
		GenderMatch:        genderMatches(rec, brief),
		RequiredFieldCount: len(active),
		FieldDetails:       make([]FieldDetail, 0, len(active)),
	}

	measured := 0
	total := 0.0
	for _, req := range active {
		detail := FieldDetail{
			Key:   req.Key,
			Label: s.labels.Label(req.Key),
			Min:   req.Min,
			Max:   req.Max,
		}
		if v, ok := rec.ParsedMeasurement(req.Key); ok {
			detail.ParsedValue = &v
			detail.Ratio = FitRatio(v, req.Range, s.tolerance)
			measured++
			total += detail.Ratio
		}
		res.FieldDetails = append(res.FieldDetails, detail)
	}

	if !res.GenderMatch {
		return res
	}

	res.MeasuredFieldCount = measured
	switch {
	case len(active) == 0:
		res.OverallScore = 1
	case measured > 0:
		res.OverallScore = total / float64(measured)
	}
	return res
}

func genderMatches(rec *talent.Record, brief talent.Brief) bool {
	if rec == nil {
		return false
	}
	got := strings.TrimSpace(rec.Gender)
	if got == "" {
		return false
	}
	return strings.EqualFold(got, strings.TrimSpace(brief.Gender))
}

// FitRatio returns 1 inside r and falls off linearly outside it, reaching 0
// one tolerance past the nearer bound. The tolerance is the range width when
// both bounds are set, otherwise fallback.
func FitRatio(v float64, r talent.Range, fallback float64) float64 {
	if r.Contains(v) {
		return 1
	}

	var distance float64
	if r.Min != nil && v < *r.Min {
		distance = *r.Min - v
	} else if r.Max != nil {
		distance = v - *r.Max
	}

	tolerance := fallback
	if r.Min != nil && r.Max != nil && *r.Max > *r.Min {
		tolerance = *r.Max - *r.Min
	}
	if tolerance <= 0 || math.IsNaN(tolerance) {
		tolerance = DefaultTolerance
	}

	return math.Max(0, 1-distance/tolerance)
}

// Explain renders one line per field describing why it scored as it did.
func (r Result) Explain() []string {
	lines := make([]string, 0, len(r.FieldDetails)+1)
	if !r.GenderMatch {
		lines = append(lines, "gender does not match the brief")
	}
	for _, d := range r.FieldDetails {
		bounds := formatBounds(d.Min, d.Max)
		switch {
		case !d.Measured():
			lines = append(lines, fmt.Sprintf("%s: not measured (wants %s)", d.Label, bounds))
		case d.Ratio == 1:
			lines = append(lines, fmt.Sprintf("%s: %s within %s", d.Label, formatNumber(*d.ParsedValue), bounds))
		default:
			lines = append(lines, fmt.Sprintf("%s: %s outside %s (fit %.2f)", d.Label, formatNumber(*d.ParsedValue), bounds, d.Ratio))
		}
	}
	return lines
}

func formatBounds(lo, hi *float64) string {
	switch {
	case lo != nil && hi != nil:
		return formatNumber(*lo) + "-" + formatNumber(*hi)
	case lo != nil:
		return ">= " + formatNumber(*lo)
	case hi != nil:
		return "<= " + formatNumber(*hi)
	default:
		return "any"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
