package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/logger"
	"github.com/ted-design/talentmatch/internal/ranking"
	"github.com/ted-design/talentmatch/internal/report"
	"github.com/ted-design/talentmatch/internal/roster"
	"github.com/ted-design/talentmatch/internal/talent"
)

const (
	PromptBrowse           = "Browse candidates"
	PromptReportByAgency   = "Report by agency"
	PromptShortlistAll     = "Append all candidates to shortlist file"
	PromptRankingToFile    = "Dump ranking to file"
	PromptExit             = "Exit"
	PromptBack             = "back"
	PromptAddToShortlist   = "Add to shortlist"
	PromptSkipCandidate    = "Skip"
	defaultBrowseCandidate = 20
)

var errExit = errors.New("exit requested")

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Walk through ranked candidates for a brief and build a shortlist",
	Run: func(cmd *cobra.Command, _ []string) {
		browse(cmd)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	addSearchFlags(browseCmd)
	browseCmd.Flags().StringP("brief", "b", "", "casting brief file")
	browseCmd.Flags().IntP("top", "n", defaultBrowseCandidate, "number of candidates to offer (0 offers all)")

	browseCmd.MarkFlagRequired("brief")
}

type session struct {
	logger    *zap.Logger
	brief     talent.Brief
	shortlist string
	entries   []ranking.Entry
}

func browse(cmd *cobra.Command) {
	log, config := setup()

	path, _ := cmd.Flags().GetString("brief")
	brief, err := roster.LoadBrief(path)
	if err != nil {
		log.Fatal("loading brief", zap.Error(err))
	}
	log = logger.WithSource(log, config.Roster, brief.Name)

	records := narrow(cmd, log, config, loadRoster(log, config).Items)
	top, _ := cmd.Flags().GetInt("top")

	s := &session{
		logger:    log,
		brief:     brief,
		shortlist: strings.TrimSpace(config.Shortlist),
		entries:   ranking.Top(ranking.New(config.scorer(), log).Rank(records, brief), top),
	}

	if len(s.entries) == 0 {
		log.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	for {
		items := []string{PromptBrowse, PromptReportByAgency, PromptRankingToFile}
		if s.shortlist != "" {
			items = append(items, PromptShortlistAll)
		}
		items = append(items, PromptExit)

		menu := promptui.Select{
			Label: fmt.Sprintf("%d candidates for %s", len(s.entries), brief.Name),
			Items: items,
		}
		_, action, err := menu.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := s.handle(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handle(action string) error {
	switch action {
	case PromptBrowse:
		return s.pick()
	case PromptReportByAgency:
		records := make([]*talent.Record, 0, len(s.entries))
		for _, e := range s.entries {
			records = append(records, e.Talent)
		}
		pretty, _ := json.MarshalIndent(report.ByAgency(records), "", "  ")
		s.logger.Info(string(pretty), zap.Int("candidates", len(records)))
		return nil
	case PromptRankingToFile:
		filename, err := report.DumpToTmpFile("ranking_*.json", s.entries)
		if err != nil {
			return fmt.Errorf("dump ranking to file: %w", err)
		}
		s.logger.Info("dumped ranking to file", zap.String("filename", filename))
		return nil
	case PromptShortlistAll:
		if err := s.addToShortlist(s.entries); err != nil {
			return err
		}
		s.entries = nil
		return errExit
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "requested from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// pick lets the user inspect candidates one at a time until they go back.
func (s *session) pick() error {
	for len(s.entries) > 0 {
		items := make([]string, 0, len(s.entries)+1)
		for _, e := range s.entries {
			items = append(items, candidateLabel(e))
		}

		candidates := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}
		idx, selected, err := candidates.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		entry := s.entries[idx]
		fields := []zap.Field{zap.String("talent_id", entry.Talent.ID), zap.Float64("score", entry.OverallScore)}
		s.logger.Info(strings.Join(entry.Explain(), "\n"), fields...)

		if s.shortlist == "" {
			continue
		}

		next := promptui.Select{
			Label: entry.Talent.Name,
			Items: []string{PromptAddToShortlist, PromptSkipCandidate, PromptBack},
		}
		_, choice, err := next.Run()
		if err != nil {
			return err
		}

		switch choice {
		case PromptAddToShortlist:
			if err := s.addToShortlist([]ranking.Entry{entry}); err != nil {
				return err
			}
			s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		case PromptBack:
			return nil
		}
	}
	return nil
}

func (s *session) addToShortlist(entries []ranking.Entry) error {
	shortlist, err := report.LoadShortlist(s.shortlist)
	if err != nil {
		return fmt.Errorf("reading shortlist: %w", err)
	}

	shortlist.Append(report.NewShortlist(s.brief.Name, entries, time.Now()))
	if err := shortlist.ToFile(s.shortlist); err != nil {
		return fmt.Errorf("writing shortlist: %w", err)
	}

	s.logger.Info("updated shortlist",
		zap.String("filename", s.shortlist),
		zap.Int("added", len(entries)),
		zap.Int("total", shortlist.Len()),
	)
	return nil
}

func candidateLabel(e ranking.Entry) string {
	agency := e.Talent.Agency
	if agency == "" {
		agency = "independent"
	}
	return fmt.Sprintf("%s %s / %s / %.2f (%d/%d measured)",
		e.Talent.ID, e.Talent.Name, agency, e.OverallScore, e.MeasuredFieldCount, e.RequiredFieldCount,
	)
}
