// Package roster loads talent rosters and casting briefs from local files.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
)

// Format is the encoding of a roster document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported roster file %q: expected .json, .yaml or .yml", path)
	}
}

// LoadTalent reads, decodes and validates the roster at path.
func LoadTalent(path string) (*talent.Roster, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	records, err := DecodeTalent(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode roster %s: %w", path, err)
	}

	if err := ValidateRecords(path, records); err != nil {
		return nil, err
	}

	return &talent.Roster{Items: records}, nil
}

// DecodeTalent decodes a roster document. The document is either a list of
// records or a mapping with a "talent" list. Records without an id get one
// derived from their name, agency and email.
func DecodeTalent(data []byte, format Format) ([]*talent.Record, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	items, err := rosterItems(doc)
	if err != nil {
		return nil, err
	}

	var records []*talent.Record
	cfg := &mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(measurementHook),
		Result:           &records,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	if records == nil {
		records = []*talent.Record{}
	}
	for _, rec := range records {
		if rec != nil && rec.ID == "" {
			rec.ID = derivedID(rec)
		}
	}

	return records, nil
}

func rosterItems(doc any) ([]any, error) {
	switch typed := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return typed, nil
	case map[string]any:
		items, ok := typed["talent"]
		if !ok {
			return nil, fmt.Errorf(`roster mapping has no "talent" list`)
		}
		if items == nil {
			return nil, nil
		}
		list, ok := items.([]any)
		if !ok {
			return nil, fmt.Errorf(`"talent" must be a list, got %T`, items)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("roster must be a list or a mapping, got %T", doc)
	}
}

var valueType = reflect.TypeOf(measurement.Value{})

func measurementHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != valueType {
		return data, nil
	}
	return measurement.FromAny(data)
}

func derivedID(rec *talent.Record) string {
	key := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(rec.Name)),
		strings.ToLower(strings.TrimSpace(rec.Agency)),
		strings.ToLower(strings.TrimSpace(rec.Email)),
	}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// LoadBrief reads and validates a casting brief. JSON files are read with the
// YAML decoder so requirement order is kept either way.
func LoadBrief(path string) (talent.Brief, error) {
	if _, err := FormatFromPath(path); err != nil {
		return talent.EmptyCastingBrief, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return talent.EmptyCastingBrief, fmt.Errorf("read brief: %w", err)
	}

	brief, err := DecodeBrief(data)
	if err != nil {
		return talent.EmptyCastingBrief, fmt.Errorf("decode brief %s: %w", path, err)
	}
	if brief.Name == "" {
		brief.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := ValidateBrief(path, brief); err != nil {
		return talent.EmptyCastingBrief, err
	}
	return brief, nil
}

// DecodeBrief decodes a single brief document.
func DecodeBrief(data []byte) (talent.Brief, error) {
	var brief talent.Brief
	if err := yaml.Unmarshal(data, &brief); err != nil {
		return talent.EmptyCastingBrief, err
	}
	return brief, nil
}

// LoadBriefs loads every brief in order, stopping at the first failure.
func LoadBriefs(paths []string) ([]talent.Brief, error) {
	briefs := make([]talent.Brief, 0, len(paths))
	for _, path := range paths {
		brief, err := LoadBrief(path)
		if err != nil {
			return nil, err
		}
		briefs = append(briefs, brief)
	}
	return briefs, nil
}
