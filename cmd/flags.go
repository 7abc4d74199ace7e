package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/roster"
	"github.com/ted-design/talentmatch/internal/talent"
)

// parseRange parses "key=min:max". Either side may be empty for an open
// bound, and a value without a colon pins both bounds.
func parseRange(s string) (measurement.Key, talent.Range, error) {
	name, bounds, ok := strings.Cut(s, "=")
	if !ok {
		return "", talent.Range{}, fmt.Errorf("range %q: expected key=min:max", s)
	}

	key, ok := measurement.ParseKey(name)
	if !ok {
		return "", talent.Range{}, fmt.Errorf("range %q: unknown measurement %q", s, strings.TrimSpace(name))
	}

	lo, hi, found := strings.Cut(bounds, ":")
	if !found {
		hi = lo
	}

	var rng talent.Range
	var err error
	if rng.Min, err = parseBound(lo); err != nil {
		return "", talent.Range{}, fmt.Errorf("range %q: min: %w", s, err)
	}
	if rng.Max, err = parseBound(hi); err != nil {
		return "", talent.Range{}, fmt.Errorf("range %q: max: %w", s, err)
	}

	if err := roster.ValidateRange("--range "+string(key), rng); err != nil {
		return "", talent.Range{}, err
	}
	return key, rng, nil
}

// parseBound accepts anything the measurement parser does, so "5'8\"" and
// "70cm" work as bounds too.
func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, ok := measurement.ParseString(s)
	if !ok {
		return nil, fmt.Errorf("cannot parse %q", s)
	}
	return &v, nil
}

func parseRanges(values []string) (map[measurement.Key]talent.Range, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ranges := make(map[measurement.Key]talent.Range, len(values))
	for _, v := range values {
		key, rng, err := parseRange(v)
		if err != nil {
			return nil, err
		}
		ranges[key] = rng
	}
	return ranges, nil
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "case-insensitive text to look for in name or agency")
	cmd.Flags().StringP("gender", "g", "", "gender to keep, ignoring case")
	cmd.Flags().StringP("agency", "a", "", "agency to keep, ignoring case")
	cmd.Flags().StringArray("range", nil, "measurement range as key=min:max, repeatable; leave a side empty for an open bound")
	cmd.Flags().Bool("history", false, "keep only talent with (true) or without (false) casting history")
	cmd.Flags().String("where", "", "CEL expression over talent.{name,gender,agency,email,casting_sessions,measurements}")
	cmd.Flags().StringSlice("exclude-agency", nil, "agencies to drop, in addition to exclude.agencies from the config")
	cmd.Flags().Bool("exclude-shortlisted", false, "drop talent already saved in the shortlist file")
}

// searchFilters reads the search flags of cmd.
func searchFilters(cmd *cobra.Command) (talent.SearchFilters, error) {
	filters := talent.EmptyTalentFilters
	flags := cmd.Flags()

	var err error
	if filters.Query, err = flags.GetString("query"); err != nil {
		return filters, err
	}
	if filters.Gender, err = flags.GetString("gender"); err != nil {
		return filters, err
	}
	if filters.Agency, err = flags.GetString("agency"); err != nil {
		return filters, err
	}

	values, err := flags.GetStringArray("range")
	if err != nil {
		return filters, err
	}
	if filters.MeasurementRanges, err = parseRanges(values); err != nil {
		return filters, err
	}

	if flags.Changed("history") {
		raw := flags.Lookup("history").Value.String()
		want, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, fmt.Errorf("history: %w", err)
		}
		filters.HasCastingHistory = &want
	}

	return filters, nil
}
