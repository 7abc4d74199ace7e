package filtering

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
)

func roster() []*talent.Record {
	return []*talent.Record{
		{
			ID: "1", Name: "Alice", Gender: "Women", Agency: "IMG",
			Measurements: map[measurement.Key]measurement.Value{measurement.Waist: measurement.Text(`28"`)},
		},
		{ID: "2", Name: "Bob", Gender: "Men", Agency: "Next"},
		{
			ID: "3", Name: "Carol", Gender: "Women", Agency: "IMG",
			Measurements: map[measurement.Key]measurement.Value{
				measurement.Height: measurement.Text(`5'9"`),
				measurement.Waist:  measurement.Number(28),
			},
		},
		{
			ID: "4", Name: "Dave", Gender: "Men", Agency: "DNA",
			CastingSessions: []talent.CastingSession{{ID: "s1", Project: "Spring lookbook"}},
		},
	}
}

func names(records []*talent.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestFilterTalent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filters talent.SearchFilters
		expect  []string
	}{
		{
			name:    "empty filters keep everything in order",
			filters: talent.EmptyTalentFilters,
			expect:  []string{"Alice", "Bob", "Carol", "Dave"},
		},
		{
			name:    "gender ignores case",
			filters: talent.SearchFilters{Gender: "women"},
			expect:  []string{"Alice", "Carol"},
		},
		{
			name: "waist range skips unparsable and missing",
			filters: talent.SearchFilters{MeasurementRanges: map[measurement.Key]talent.Range{
				measurement.Waist: talent.Between(26, 30),
			}},
			expect: []string{"Alice", "Carol"},
		},
		{
			name:    "casting history required",
			filters: talent.SearchFilters{HasCastingHistory: ptr(true)},
			expect:  []string{"Dave"},
		},
		{
			name:    "casting history absent",
			filters: talent.SearchFilters{HasCastingHistory: ptr(false)},
			expect:  []string{"Alice", "Bob", "Carol"},
		},
		{
			name:    "query matches agency",
			filters: talent.SearchFilters{Query: "img"},
			expect:  []string{"Alice", "Carol"},
		},
		{
			name:    "query matches name substring",
			filters: talent.SearchFilters{Query: "AV"},
			expect:  []string{"Dave"},
		},
		{
			name:    "agency exact match ignoring case",
			filters: talent.SearchFilters{Agency: "next"},
			expect:  []string{"Bob"},
		},
		{
			name:    "agency requires whole value",
			filters: talent.SearchFilters{Agency: "IM"},
			expect:  []string{},
		},
		{
			name: "vacuous range matches regardless of data",
			filters: talent.SearchFilters{MeasurementRanges: map[measurement.Key]talent.Range{
				measurement.Hips: {},
			}},
			expect: []string{"Alice", "Bob", "Carol", "Dave"},
		},
		{
			name: "constraints are combined",
			filters: talent.SearchFilters{
				Gender: "Women",
				MeasurementRanges: map[measurement.Key]talent.Range{
					measurement.Height: talent.AtLeast(68),
				},
			},
			expect: []string{"Carol"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := names(FilterTalent(roster(), tt.filters))
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestFilterTalentEndToEndScenario(t *testing.T) {
	t.Parallel()

	// "28 in" is not a supported notation, so Alice has no usable waist.
	all := roster()
	all[0].Measurements = map[measurement.Key]measurement.Value{measurement.Waist: measurement.Text("28 in")}

	if got := names(FilterTalent(all, talent.SearchFilters{Gender: "women"})); !reflect.DeepEqual(got, []string{"Alice", "Carol"}) {
		t.Fatalf("expected [Alice Carol], got %v", got)
	}
	ranges := talent.SearchFilters{MeasurementRanges: map[measurement.Key]talent.Range{measurement.Waist: talent.Between(26, 30)}}
	if got := names(FilterTalent(all, ranges)); !reflect.DeepEqual(got, []string{"Carol"}) {
		t.Fatalf("expected [Carol], got %v", got)
	}
	if got := names(FilterTalent(all, talent.SearchFilters{HasCastingHistory: ptr(true)})); !reflect.DeepEqual(got, []string{"Dave"}) {
		t.Fatalf("expected [Dave], got %v", got)
	}
}

func TestFilterTalentDoesNotMutate(t *testing.T) {
	t.Parallel()

	input := roster()
	before := make([]*talent.Record, len(input))
	copy(before, input)
	snapshot := *input[2]

	filters := talent.SearchFilters{Gender: "women", Query: "a"}
	first := FilterTalent(input, filters)
	second := FilterTalent(input, filters)

	for i := range input {
		if input[i] != before[i] {
			t.Fatalf("expected input slice to be untouched at %d", i)
		}
	}
	if !reflect.DeepEqual(*input[2], snapshot) {
		t.Fatalf("expected record to be untouched")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected repeated calls to agree")
	}
	if len(first) == 0 || first[0] != input[0] {
		t.Fatalf("expected result to reference the input records")
	}
	if &first[0] == &input[0] {
		t.Fatalf("expected a fresh slice")
	}
}

func TestMatchesNilGenderNeverMatches(t *testing.T) {
	t.Parallel()

	rec := &talent.Record{Name: "Unknown"}
	if Matches(rec, talent.SearchFilters{Gender: "Women"}) {
		t.Fatalf("expected record without gender to be rejected")
	}
	if !Matches(rec, talent.SearchFilters{Gender: "   "}) {
		t.Fatalf("expected blank gender filter to impose no constraint")
	}
}

func TestExtractUniqueAgencies(t *testing.T) {
	t.Parallel()

	if got := ExtractUniqueAgencies(nil); len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	records := append(roster(), &talent.Record{Name: "Eve", Agency: "Elite"}, &talent.Record{Name: "Fay"})
	got := ExtractUniqueAgencies(records)
	expect := []string{"DNA", "Elite", "IMG", "Next"}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
}

func TestRunReportsSteps(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	filters := talent.SearchFilters{Gender: "women", Query: "carol"}
	out, steps := Run(logger, roster(), Steps(filters))

	if got := names(out); !reflect.DeepEqual(got, []string{"Carol"}) {
		t.Fatalf("expected [Carol], got %v", got)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Name != "query" || steps[0].Initial != 4 || steps[0].Left != 1 {
		t.Fatalf("unexpected query step: %+v", steps[0])
	}
	if steps[1].Name != "gender" || steps[1].Dropped != 0 {
		t.Fatalf("unexpected gender step: %+v", steps[1])
	}

	entries := observed.FilterMessage("filter step").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].ContextMap()["name"] != "query" {
		t.Fatalf("unexpected log fields: %v", entries[0].ContextMap())
	}

	if _, steps := Run(nil, roster(), nil); len(steps) != 0 {
		t.Fatalf("expected no steps without filters")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := Steps(talent.SearchFilters{
		Agency:            "IMG",
		HasCastingHistory: ptr(false),
		MeasurementRanges: map[measurement.Key]talent.Range{
			measurement.Waist: talent.AtMost(30),
			measurement.Hips:  {},
		},
	})
	statuses := Describe(steps)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[0].Details["agency"] != "IMG" {
		t.Fatalf("unexpected agency details: %v", statuses[0].Details)
	}
	if statuses[1].Details["waist"] != "*..30" {
		t.Fatalf("unexpected range details: %v", statuses[1].Details)
	}
	if _, ok := statuses[1].Details["hips"]; ok {
		t.Fatalf("expected vacuous range to be dropped")
	}
	if statuses[2].Details["has_casting_history"] != "false" {
		t.Fatalf("unexpected history details: %v", statuses[2].Details)
	}
}

func TestExcludeSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		step   Filter
		expect []string
	}{
		{name: "shortlisted ids", step: NewExcludeIDs("shortlist.json", []string{"1", " 4 ", ""}), expect: []string{"Bob", "Carol"}},
		{name: "no ids", step: NewExcludeIDs("", nil), expect: []string{"Alice", "Bob", "Carol", "Dave"}},
		{name: "agencies ignore case", step: NewExcludeAgencies([]string{"img", " "}), expect: []string{"Bob", "Dave"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := names(Apply(roster(), []Filter{tt.step}))
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}

	status := Describe([]Filter{NewExcludeIDs("shortlist.json", []string{"1", "4"})})[0]
	if status.Details["ids"] != "2" || status.Details["path"] != "shortlist.json" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
