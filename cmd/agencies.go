package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/filtering"
	"github.com/ted-design/talentmatch/internal/report"
)

var agenciesCmd = &cobra.Command{
	Use:   "agencies",
	Short: "List the distinct agencies in the roster",
	Run: func(_ *cobra.Command, _ []string) {
		logger, config := setup()
		format := config.format(logger)

		agencies := filtering.ExtractUniqueAgencies(loadRoster(logger, config).Items)

		if format == report.FormatJSON {
			if err := report.WriteJSON(os.Stdout, agencies); err != nil {
				logger.Fatal("writing report", zap.Error(err))
			}
			return
		}
		for _, agency := range agencies {
			fmt.Fprintln(os.Stdout, agency)
		}
	},
}

func init() {
	rootCmd.AddCommand(agenciesCmd)
}
