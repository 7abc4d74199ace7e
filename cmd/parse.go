package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/report"
)

type parsedValue struct {
	Input  string   `json:"input"`
	Inches *float64 `json:"inches"`
}

var parseCmd = &cobra.Command{
	Use:   "parse VALUE...",
	Short: "Show how measurement strings are normalised to inches",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger, config := setup()

		var err error
		if config.format(logger) == report.FormatJSON {
			out := make([]parsedValue, 0, len(args))
			for _, arg := range args {
				p := parsedValue{Input: arg}
				if v, ok := measurement.ParseString(arg); ok {
					p.Inches = &v
				}
				out = append(out, p)
			}
			err = report.WriteJSON(os.Stdout, out)
		} else {
			err = report.WriteParsed(os.Stdout, args)
		}
		if err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
