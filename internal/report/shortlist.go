package report

import (
	"errors"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/ted-design/talentmatch/internal/ranking"
)

// Shortlist is the set of talent picked for a brief, kept between sessions.
type Shortlist struct {
	Items []*ShortlistEntry `json:"items"`
}

type ShortlistEntry struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Agency  string    `json:"agency,omitempty"`
	Brief   string    `json:"brief,omitempty"`
	Score   float64   `json:"score"`
	AddedAt time.Time `json:"addedAt"`
}

// NewShortlist records entries as picked for brief at now.
func NewShortlist(brief string, entries []ranking.Entry, now time.Time) *Shortlist {
	s := &Shortlist{Items: make([]*ShortlistEntry, 0, len(entries))}
	for _, e := range entries {
		s.Items = append(s.Items, &ShortlistEntry{
			ID:      e.Talent.ID,
			Name:    e.Talent.Name,
			Agency:  e.Talent.Agency,
			Brief:   brief,
			Score:   e.OverallScore,
			AddedAt: now.UTC(),
		})
	}
	return s
}

// LoadShortlist reads a shortlist file. A missing or empty file is an empty
// shortlist.
func LoadShortlist(path string) (*Shortlist, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Shortlist{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &Shortlist{}, nil
	}

	var s Shortlist
	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Append adds the entries of other whose id is not already listed.
func (s *Shortlist) Append(other *Shortlist) {
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range other.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		s.Items = append(s.Items, item)
	}
}

func (s *Shortlist) IDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (s *Shortlist) Len() int {
	return len(s.Items)
}

// ToFile replaces the content of path with the shortlist.
func (s *Shortlist) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, s)
}
