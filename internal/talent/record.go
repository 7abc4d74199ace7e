package talent

import (
	"github.com/ted-design/talentmatch/internal/measurement"
)

// Record is one person in the roster. Empty strings mean the field is absent.
type Record struct {
	ID              string                                `json:"id" mapstructure:"id"`
	Name            string                                `json:"name" mapstructure:"name" validate:"required"`
	Gender          string                                `json:"gender,omitempty" mapstructure:"gender"`
	Agency          string                                `json:"agency,omitempty" mapstructure:"agency"`
	Email           string                                `json:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
	Measurements    map[measurement.Key]measurement.Value `json:"measurements,omitempty" mapstructure:"measurements" validate:"dive,keys,measurement_key,endkeys"`
	CastingSessions []CastingSession                      `json:"castingSessions,omitempty" mapstructure:"castingSessions"`
}

// CastingSession is a prior casting the talent attended. Only its presence is
// used by matching.
type CastingSession struct {
	ID      string `json:"id,omitempty" mapstructure:"id"`
	Project string `json:"project,omitempty" mapstructure:"project"`
	Date    string `json:"date,omitempty" mapstructure:"date"`
}

// Measurement returns the raw value stored under key. A missing key yields
// the absent Value.
func (r *Record) Measurement(key measurement.Key) measurement.Value {
	if r == nil || r.Measurements == nil {
		return measurement.Value{}
	}
	return r.Measurements[key]
}

// ParsedMeasurement parses the value stored under key.
func (r *Record) ParsedMeasurement(key measurement.Key) (float64, bool) {
	return measurement.Parse(r.Measurement(key))
}

// HasCastingHistory reports whether the talent attended at least one casting.
func (r *Record) HasCastingHistory() bool {
	return r != nil && len(r.CastingSessions) > 0
}

// Roster is an ordered talent snapshot.
type Roster struct {
	Items []*Record
}

func (r *Roster) Len() int {
	return len(r.Items)
}

func (r *Roster) FindByID(id string) *Record {
	for _, rec := range r.Items {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, rec := range r.Items {
		names = append(names, rec.Name)
	}
	return names
}
