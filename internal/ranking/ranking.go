package ranking

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ted-design/talentmatch/internal/logger"
	"github.com/ted-design/talentmatch/internal/matching"
	"github.com/ted-design/talentmatch/internal/talent"
)

// Entry pairs a talent with its score breakdown for one brief.
type Entry struct {
	Talent *talent.Record `json:"talent"`
	matching.Result
}

// Ranker orders talent by fit to a brief.
type Ranker struct {
	scorer *matching.Scorer
	logger *zap.Logger
}

// New creates a ranker. A nil scorer uses the built-in labels and tolerance;
// a nil logger discards output.
func New(scorer *matching.Scorer, log *zap.Logger) *Ranker {
	if scorer == nil {
		scorer = matching.NewScorer(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{scorer: scorer, logger: log}
}

var defaultRanker = New(nil, nil)

// Rank scores every record against brief with the built-in scorer.
func Rank(records []*talent.Record, brief talent.Brief) []Entry {
	return defaultRanker.Rank(records, brief)
}

// Rank scores every record against brief and returns a new slice ordered by
// score, then measured field count (both descending), then name.
func (r *Ranker) Rank(records []*talent.Record, brief talent.Brief) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		entries = append(entries, Entry{Talent: rec, Result: r.scorer.Score(rec, brief)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})

	r.logger.Debug("ranked talent",
		zap.String("brief", brief.Name),
		zap.String("gender", brief.Gender),
		zap.Int("candidates", len(entries)),
	)
	return entries
}

func less(a, b Entry) bool {
	if a.OverallScore != b.OverallScore {
		return a.OverallScore > b.OverallScore
	}
	if a.MeasuredFieldCount != b.MeasuredFieldCount {
		return a.MeasuredFieldCount > b.MeasuredFieldCount
	}
	return a.Talent.Name < b.Talent.Name
}

// Top returns at most n leading entries. n <= 0 keeps everything.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// RankBriefs ranks records against each brief concurrently, running at most
// limit rankings at once (limit <= 0 means no bound). Result i belongs to
// briefs[i].
func (r *Ranker) RankBriefs(ctx context.Context, records []*talent.Record, briefs []talent.Brief, limit int) ([][]Entry, error) {
	results := make([][]Entry, len(briefs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, brief := range briefs {
		i, brief := i, brief
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("rank brief %q: %w", brief.Name, err)
			}
			entries := r.Rank(records, brief)
			results[i] = entries

			fields := []zap.Field{zap.Int("index", i), zap.Int("candidates", len(entries))}
			if len(entries) > 0 {
				fields = append(fields, zap.Float64("best", entries[0].OverallScore))
			}
			log := logger.WithFields(r.logger, logger.StringFields(logger.StringField{Key: logger.FieldBrief, Value: brief.Name})...)
			log.Info("brief ranked", fields...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
