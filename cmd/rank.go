package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/ranking"
	"github.com/ted-design/talentmatch/internal/report"
	"github.com/ted-design/talentmatch/internal/roster"
	"github.com/ted-design/talentmatch/internal/talent"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the roster against one or more casting briefs",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	addSearchFlags(rankCmd)
	rankCmd.Flags().StringArrayP("brief", "b", nil, "casting brief file, repeatable")
	rankCmd.Flags().IntP("top", "n", 0, "show only the best N candidates per brief (0 shows all)")
	rankCmd.Flags().Bool("explain", false, "print why each shown candidate scored as it did")

	rankCmd.MarkFlagRequired("brief")
}

type briefRanking struct {
	Brief   talent.Brief    `json:"brief"`
	Entries []ranking.Entry `json:"entries"`
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()
	format := config.format(logger)

	paths, _ := cmd.Flags().GetStringArray("brief")
	briefs, err := roster.LoadBriefs(paths)
	if err != nil {
		logger.Fatal("loading briefs", zap.Error(err))
	}

	records := narrow(cmd, logger, config, loadRoster(logger, config).Items)

	ranker := ranking.New(config.scorer(), logger)
	results, err := ranker.RankBriefs(ctx, records, briefs, config.Concurrency)
	if err != nil {
		logger.Fatal("ranking", zap.Error(err))
	}

	top, _ := cmd.Flags().GetInt("top")
	explain, _ := cmd.Flags().GetBool("explain")

	rankings := make([]briefRanking, 0, len(briefs))
	for i, brief := range briefs {
		rankings = append(rankings, briefRanking{Brief: brief, Entries: ranking.Top(results[i], top)})
	}

	if format == report.FormatJSON {
		if err := report.WriteJSON(os.Stdout, rankings); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	for i, r := range rankings {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		if err := report.WriteRanking(os.Stdout, r.Brief, r.Entries); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		if explain {
			writeExplanations(r.Entries)
		}
	}
}

func writeExplanations(entries []ranking.Entry) {
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "\n%s (%.2f)\n", e.Talent.Name, e.OverallScore)
		for _, line := range e.Explain() {
			fmt.Fprintf(os.Stdout, "  %s\n", line)
		}
	}
}
