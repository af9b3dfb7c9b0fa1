package schema

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is the loosely-typed form of a stored submission body. Reads go
// through Record rather than Submission so that unknown keys written by
// older versions of the portal survive a read-modify-write untouched.
type Record map[string]any

// legacyMemberLine matches the old free-text team member convention,
// one "NAME <EMAIL>" per line.
var legacyMemberLine = regexp.MustCompile(`^(.*)\s*<([^>]+)>$`)

// EncodeRecord serializes a record body to YAML.
func EncodeRecord(r Record) ([]byte, error) {
	return yaml.Marshal(r)
}

// EncodeSubmission serializes a typed submission to YAML, preserving the
// field order of the submit form.
func EncodeSubmission(s *Submission) ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeRecordStrict parses a stored body and reports malformed input.
// Listing uses it to mark unreadable entries instead of dropping them.
func DecodeRecordStrict(data []byte) (Record, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return Record{}, nil
	}
	return r, nil
}

// DecodeRecord parses a stored body. Malformed or empty input yields an
// empty record rather than an error: files in the store may predate the
// portal or have been hand-edited, and mutating callers are expected to
// treat them defensively.
func DecodeRecord(data []byte) Record {
	r, err := DecodeRecordStrict(data)
	if err != nil {
		return Record{}
	}
	return r
}

// NormalizeTeamMembers converts either representation of a team list
// into the canonical structured form. Structured entries pass through;
// a single text block (the legacy convention) is split line-by-line and
// matched against "NAME <EMAIL>". Anything unrecognizable normalizes to
// an empty list. Applying it twice is a no-op.
func NormalizeTeamMembers(v any) []TeamMember {
	switch tm := v.(type) {
	case nil:
		return []TeamMember{}
	case []TeamMember:
		out := make([]TeamMember, 0, len(tm))
		for _, m := range tm {
			if m.Name == "" {
				continue
			}
			out = append(out, TeamMember{Name: m.Name, Email: m.Email})
		}
		return out
	case []any:
		out := make([]TeamMember, 0, len(tm))
		for _, item := range tm {
			m := normalizeEntry(item)
			if m.Name == "" {
				continue
			}
			out = append(out, m)
		}
		return out
	case string:
		return parseLegacyBlock(tm)
	default:
		return []TeamMember{}
	}
}

func normalizeEntry(item any) TeamMember {
	switch e := item.(type) {
	case string:
		return TeamMember{Name: e}
	case map[string]any:
		m := TeamMember{}
		if name, ok := e["name"].(string); ok {
			m.Name = name
		}
		if email, ok := e["email"].(string); ok {
			m.Email = email
		}
		return m
	default:
		return TeamMember{}
	}
}

func parseLegacyBlock(block string) []TeamMember {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	out := make([]TeamMember, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := legacyMemberLine.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			if name == "" {
				continue
			}
			out = append(out, TeamMember{Name: name, Email: strings.TrimSpace(m[2])})
			continue
		}
		out = append(out, TeamMember{Name: line})
	}
	return out
}
