package filtering

import (
	"strconv"
	"strings"

	"github.com/ted-design/talentmatch/internal/talent"
)

type excludeIDsFilter struct {
	source string
	ids    map[string]struct{}
}

// NewExcludeIDs creates a filter that removes records whose id is listed,
// typically the talent already saved to a shortlist file at source.
func NewExcludeIDs(source string, ids []string) Filter {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return &excludeIDsFilter{source: source, ids: set}
}

func (f *excludeIDsFilter) Name() string { return "exclude_shortlisted" }

func (f *excludeIDsFilter) Match(rec *talent.Record) bool {
	_, excluded := f.ids[rec.ID]
	return !excluded
}

func (f *excludeIDsFilter) Status() Status {
	details := map[string]string{"ids": strconv.Itoa(len(f.ids))}
	if f.source != "" {
		details["path"] = f.source
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type excludeAgenciesFilter struct {
	agencies []string
}

// NewExcludeAgencies creates a filter that removes talent represented by any
// of agencies, ignoring case.
func NewExcludeAgencies(agencies []string) Filter {
	f := &excludeAgenciesFilter{}
	for _, a := range agencies {
		if a = strings.TrimSpace(a); a != "" {
			f.agencies = append(f.agencies, a)
		}
	}
	return f
}

func (f *excludeAgenciesFilter) Name() string { return "exclude_agencies" }

func (f *excludeAgenciesFilter) Match(rec *talent.Record) bool {
	for _, a := range f.agencies {
		if strings.EqualFold(rec.Agency, a) {
			return false
		}
	}
	return true
}

func (f *excludeAgenciesFilter) Status() Status {
	details := map[string]string{}
	if len(f.agencies) > 0 {
		details["agencies"] = strings.Join(f.agencies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
