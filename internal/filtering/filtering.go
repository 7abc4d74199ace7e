package filtering

import (
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/talent"
)

// Filter represents a single constraint applied to talent records.
type Filter interface {
	Name() string
	Match(rec *talent.Record) bool
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// FilterTalent returns the records that satisfy every constraint in filters,
// in their original order. Neither the slice nor the records are modified.
func FilterTalent(records []*talent.Record, filters talent.SearchFilters) []*talent.Record {
	return Apply(records, Steps(filters))
}

// Matches reports whether rec satisfies every constraint in filters.
func Matches(rec *talent.Record, filters talent.SearchFilters) bool {
	return matchAll(rec, Steps(filters))
}

// Apply keeps the records accepted by all steps, preserving order.
func Apply(records []*talent.Record, steps []Filter) []*talent.Record {
	out := make([]*talent.Record, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if matchAll(rec, steps) {
			out = append(out, rec)
		}
	}
	return out
}

func matchAll(rec *talent.Record, steps []Filter) bool {
	for _, step := range steps {
		if !step.Match(rec) {
			return false
		}
	}
	return true
}

// Run executes the supplied filters sequentially and reports how many records
// each one dropped. The result equals Apply(records, steps).
func Run(logger *zap.Logger, records []*talent.Record, steps []Filter) ([]*talent.Record, []Step) {
	current := Apply(records, nil)
	report := make([]Step, 0, len(steps))

	for _, step := range steps {
		initial := len(current)
		next := make([]*talent.Record, 0, initial)
		for _, rec := range current {
			if step.Match(rec) {
				next = append(next, rec)
			}
		}

		info := Step{Name: step.Name(), Initial: initial, Dropped: initial - len(next), Left: len(next)}
		report = append(report, info)

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", info.Name),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		current = next
	}

	return current, report
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: true,
		})
	}
	return statuses
}
