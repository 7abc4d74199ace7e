package matching

import (
	"math"
	"reflect"
	"testing"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
)

func womenBrief(reqs ...talent.Requirement) talent.Brief {
	return talent.Brief{Gender: "Women", Requirements: reqs}
}

func req(key measurement.Key, rng talent.Range) talent.Requirement {
	return talent.Requirement{Key: key, Range: rng}
}

func carol() *talent.Record {
	return &talent.Record{
		ID: "3", Name: "Carol", Gender: "women",
		Measurements: map[measurement.Key]measurement.Value{
			measurement.Waist:  measurement.Number(28),
			measurement.Height: measurement.Text(`5'9"`),
		},
	}
}

func TestComputeMatchScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rec      *talent.Record
		brief    talent.Brief
		score    float64
		gender   bool
		measured int
		required int
	}{
		{
			name:     "inside range",
			rec:      carol(),
			brief:    womenBrief(req(measurement.Waist, talent.Between(26, 30))),
			score:    1,
			gender:   true,
			measured: 1,
			required: 1,
		},
		{
			name:     "gender mismatch",
			rec:      &talent.Record{Name: "Bob", Gender: "Men", Measurements: carol().Measurements},
			brief:    womenBrief(req(measurement.Waist, talent.Between(26, 30))),
			score:    0,
			measured: 0,
			required: 1,
		},
		{
			name:     "missing gender never matches",
			rec:      &talent.Record{Name: "Unknown"},
			brief:    womenBrief(),
			required: 0,
		},
		{
			name:   "vacuous brief",
			rec:    carol(),
			brief:  womenBrief(),
			score:  1,
			gender: true,
		},
		{
			name: "inactive requirement is ignored",
			rec:  carol(),
			brief: womenBrief(
				req(measurement.Hips, talent.Range{}),
				req(measurement.Waist, talent.AtMost(30)),
			),
			score:    1,
			gender:   true,
			measured: 1,
			required: 1,
		},
		{
			name:     "nothing measured",
			rec:      &talent.Record{Name: "Eve", Gender: "Women"},
			brief:    womenBrief(req(measurement.Waist, talent.Between(26, 30))),
			score:    0,
			gender:   true,
			measured: 0,
			required: 1,
		},
		{
			name: "mean over measured fields",
			rec:  carol(),
			brief: womenBrief(
				req(measurement.Waist, talent.Between(26, 30)),
				req(measurement.Height, talent.Between(70, 74)),
				req(measurement.Hips, talent.Between(34, 36)),
			),
			score:    0.875,
			gender:   true,
			measured: 2,
			required: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeMatchScore(tt.rec, tt.brief)
			if got.OverallScore != tt.score {
				t.Fatalf("expected score %v, got %v", tt.score, got.OverallScore)
			}
			if got.GenderMatch != tt.gender {
				t.Fatalf("expected gender match %v, got %v", tt.gender, got.GenderMatch)
			}
			if got.MeasuredFieldCount != tt.measured {
				t.Fatalf("expected %d measured, got %d", tt.measured, got.MeasuredFieldCount)
			}
			if got.RequiredFieldCount != tt.required {
				t.Fatalf("expected %d required, got %d", tt.required, got.RequiredFieldCount)
			}
			if len(got.FieldDetails) != tt.required {
				t.Fatalf("expected %d field details, got %d", tt.required, len(got.FieldDetails))
			}
			if got.OverallScore < 0 || got.OverallScore > 1 {
				t.Fatalf("score out of bounds: %v", got.OverallScore)
			}
		})
	}
}

func TestScoreFieldDetails(t *testing.T) {
	t.Parallel()

	brief := womenBrief(
		req(measurement.Height, talent.Between(70, 74)),
		req(measurement.Hips, talent.AtLeast(34)),
	)
	got := ComputeMatchScore(carol(), brief)

	height := got.FieldDetails[0]
	if height.Key != measurement.Height || height.Label != "Height" {
		t.Fatalf("unexpected height detail: %+v", height)
	}
	if height.ParsedValue == nil || *height.ParsedValue != 69 {
		t.Fatalf("expected parsed height 69, got %v", height.ParsedValue)
	}
	if height.Ratio != 0.75 {
		t.Fatalf("expected ratio 0.75, got %v", height.Ratio)
	}
	if *height.Min != 70 || *height.Max != 74 {
		t.Fatalf("expected bounds to be echoed, got %v..%v", *height.Min, *height.Max)
	}

	hips := got.FieldDetails[1]
	if hips.Measured() || hips.Ratio != 0 || hips.Label != "Hips" {
		t.Fatalf("unexpected hips detail: %+v", hips)
	}
	if hips.Max != nil {
		t.Fatalf("expected open upper bound")
	}
}

func TestScoreGenderMismatchKeepsDetails(t *testing.T) {
	t.Parallel()

	rec := carol()
	rec.Gender = "Men"
	got := ComputeMatchScore(rec, womenBrief(req(measurement.Waist, talent.Between(26, 30))))

	if got.OverallScore != 0 || got.MeasuredFieldCount != 0 {
		t.Fatalf("expected zero score and count, got %+v", got)
	}
	if len(got.FieldDetails) != 1 || got.FieldDetails[0].ParsedValue == nil {
		t.Fatalf("expected populated details, got %+v", got.FieldDetails)
	}
}

func TestFitRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		v      float64
		rng    talent.Range
		expect float64
	}{
		{name: "inside", v: 28, rng: talent.Between(26, 30), expect: 1},
		{name: "on lower bound", v: 26, rng: talent.Between(26, 30), expect: 1},
		{name: "on upper bound", v: 30, rng: talent.Between(26, 30), expect: 1},
		{name: "one past upper uses width", v: 31, rng: talent.Between(26, 30), expect: 0.75},
		{name: "two below lower uses width", v: 24, rng: talent.Between(26, 30), expect: 0.5},
		{name: "far outside", v: 40, rng: talent.Between(26, 30), expect: 0},
		{name: "open upper uses fallback", v: 67, rng: talent.AtLeast(68), expect: 0.5},
		{name: "open lower uses fallback", v: 31, rng: talent.AtMost(30), expect: 0.5},
		{name: "point range uses fallback", v: 31, rng: talent.Between(30, 30), expect: 0.5},
		{name: "no bounds", v: 100, rng: talent.Range{}, expect: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FitRatio(tt.v, tt.rng, DefaultTolerance); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestFitRatioMonotonic(t *testing.T) {
	t.Parallel()

	rng := talent.Between(26, 30)
	prev := 1.0
	for v := 30.0; v <= 40; v += 0.25 {
		got := FitRatio(v, rng, DefaultTolerance)
		if got > prev {
			t.Fatalf("ratio grew from %v to %v at %v", prev, got, v)
		}
		if got < 0 || got > 1 {
			t.Fatalf("ratio out of bounds at %v: %v", v, got)
		}
		prev = got
	}
	if prev != 0 {
		t.Fatalf("expected ratio to reach 0, got %v", prev)
	}

	// Continuity at the bound.
	if got := FitRatio(30+1e-9, rng, DefaultTolerance); math.Abs(got-1) > 1e-6 {
		t.Fatalf("expected ratio near 1 just past the bound, got %v", got)
	}
}

func TestNewScorerOptions(t *testing.T) {
	t.Parallel()

	overrides := measurement.DefaultLabels().Merge(map[string]string{"waist": "Waist (in)"})
	s := NewScorer(overrides, WithTolerance(4), WithTolerance(-1))
	overrides[measurement.Waist] = "changed"

	if s.Tolerance() != 4 {
		t.Fatalf("expected tolerance 4, got %v", s.Tolerance())
	}

	brief := womenBrief(
		req(measurement.Waist, talent.Between(26, 30)),
		req(measurement.Height, talent.AtLeast(71)),
	)
	got := s.Score(carol(), brief)
	if got.FieldDetails[0].Label != "Waist (in)" {
		t.Fatalf("expected copied label, got %q", got.FieldDetails[0].Label)
	}
	if got.FieldDetails[1].Ratio != 0.5 {
		t.Fatalf("expected ratio 0.5 with tolerance 4, got %v", got.FieldDetails[1].Ratio)
	}

	if s := NewScorer(nil); s.Tolerance() != DefaultTolerance {
		t.Fatalf("expected default tolerance, got %v", s.Tolerance())
	}
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	rec := carol()
	brief := womenBrief(req(measurement.Waist, talent.Between(26, 30)), req(measurement.Hips, talent.Range{}))
	recBefore := *carol()
	briefBefore := womenBrief(req(measurement.Waist, talent.Between(26, 30)), req(measurement.Hips, talent.Range{}))

	first := ComputeMatchScore(rec, brief)
	second := ComputeMatchScore(rec, brief)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(*rec, recBefore) || !reflect.DeepEqual(brief, briefBefore) {
		t.Fatalf("expected inputs to be untouched")
	}
}

func TestResultExplain(t *testing.T) {
	t.Parallel()

	rec := carol()
	rec.Gender = "Men"
	brief := womenBrief(
		req(measurement.Waist, talent.Between(26, 30)),
		req(measurement.Height, talent.AtLeast(71)),
		req(measurement.Hips, talent.AtMost(36)),
	)
	got := ComputeMatchScore(rec, brief).Explain()
	expect := []string{
		"gender does not match the brief",
		"Waist: 28 within 26-30",
		"Height: 69 outside >= 71 (fit 0.00)",
		"Hips: not measured (wants <= 36)",
	}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("expected %q, got %q", expect, got)
	}
}
