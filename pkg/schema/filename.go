package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrMalformedFilename reports a filename that does not follow the
// status__date-slug.yaml scheme. Since the filename is the record's
// identity this is a data-integrity problem, not user input error.
var ErrMalformedFilename = errors.New("malformed filename")

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the filename-safe form of a title: lowercase, every run
// of non-alphanumeric characters collapsed to a single hyphen, truncated
// to SlugMaxLen. Leading/trailing hyphens are deliberately kept: the
// slug participates in round-trip identity and must match exactly what
// was written at creation time.
func Slug(title string) string {
	s := nonAlnumRun.ReplaceAllString(strings.ToLower(title), "-")
	if len(s) > SlugMaxLen {
		s = s[:SlugMaxLen]
	}
	return s
}

// MakeFilename builds the status-prefixed filename that serves as a
// submission's primary key: {status}__{YYYY-MM-DD}-{slug}.yaml.
func MakeFilename(status Status, createdAt time.Time, title string) string {
	return fmt.Sprintf("%s__%s-%s.yaml", status, createdAt.Format("2006-01-02"), Slug(title))
}

// SplitFilename separates a filename into its status prefix and the
// date+slug suffix. It fails unless the name contains exactly one "__"
// separator.
func SplitFilename(filename string) (status, suffix string, err error) {
	parts := strings.Split(filename, "__")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedFilename, filename)
	}
	return parts[0], parts[1], nil
}

// RenameForStatus returns the filename a record moves to when its status
// changes. Everything after the separator is preserved verbatim so the
// record keeps its identity across transitions.
func RenameForStatus(filename string, newStatus Status) (string, error) {
	_, suffix, err := SplitFilename(filename)
	if err != nil {
		return "", err
	}
	return string(newStatus) + "__" + suffix, nil
}
