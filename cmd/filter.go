package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/filtering"
	"github.com/ted-design/talentmatch/internal/report"
	"github.com/ted-design/talentmatch/internal/talent"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Narrow the roster by text, gender, agency, measurements and casting history",
	Run: func(cmd *cobra.Command, _ []string) {
		filter(cmd)
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)

	addSearchFlags(filterCmd)
	filterCmd.Flags().Bool("by-agency", false, "group the result by agency")
}

func filter(cmd *cobra.Command) {
	logger, config := setup()
	format := config.format(logger)
	roster := loadRoster(logger, config)

	records := narrow(cmd, logger, config, roster.Items)

	if byAgency, _ := cmd.Flags().GetBool("by-agency"); byAgency {
		if err := report.WriteJSON(os.Stdout, report.ByAgency(records)); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	var err error
	switch format {
	case report.FormatJSON:
		err = report.WriteJSON(os.Stdout, records)
	default:
		err = report.WriteRecords(os.Stdout, records)
	}
	if err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
}

// narrow applies the search flags of cmd together with the configured
// exclusions and logs what every step removed.
func narrow(cmd *cobra.Command, logger *zap.Logger, config *Config, records []*talent.Record) []*talent.Record {
	filters, err := searchFilters(cmd)
	if err != nil {
		logger.Fatal("reading filters", zap.Error(err))
	}

	steps := filtering.Steps(filters)

	if where, _ := cmd.Flags().GetString("where"); strings.TrimSpace(where) != "" {
		expr, err := filtering.NewExpression(where)
		if err != nil {
			logger.Fatal("compiling --where", zap.Error(err))
		}
		steps = append(steps, expr)
	}

	excluded, _ := cmd.Flags().GetStringSlice("exclude-agency")
	excluded = append(excluded, config.excludedAgencies()...)
	if len(excluded) > 0 {
		steps = append(steps, filtering.NewExcludeAgencies(excluded))
	}

	if skip, _ := cmd.Flags().GetBool("exclude-shortlisted"); skip {
		steps = append(steps, shortlistedStep(logger, config))
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter enabled", zap.String("name", status.Name), zap.Any("details", status.Details))
	}

	result, _ := filtering.Run(logger, records, steps)
	logger.Info("filtered roster", zap.Int("initial", len(records)), zap.Int("left", len(result)))
	return result
}

func shortlistedStep(logger *zap.Logger, config *Config) filtering.Filter {
	path := strings.TrimSpace(config.Shortlist)
	if path == "" {
		logger.Fatal("shortlist file is not configured", zap.String("hint", "set the 'shortlist' key in the configuration file"))
	}

	shortlist, err := report.LoadShortlist(path)
	if err != nil {
		logger.Fatal("reading shortlist", zap.String("path", path), zap.Error(err))
	}
	return filtering.NewExcludeIDs(path, shortlist.IDs())
}
