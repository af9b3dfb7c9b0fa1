// Package service orchestrates validation, the record codec, the
// filename scheme, and the file store into the portal's four
// operations: create, list, join, and status change.
package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"microhub/internal/core"
	"microhub/internal/store"
	"microhub/pkg/schema"
)

// Service implements the submission workflow against a store.Client.
type Service struct {
	store  store.Client
	dir    string
	logger core.Logger
	now    func() time.Time
}

// NewService creates a submission service. The submissions directory
// comes from cfg so tests can point it anywhere.
func NewService(st store.Client, cfg *core.Config, logger core.Logger) *Service {
	return &Service{
		store:  st,
		dir:    cfg.SubmissionsDir,
		logger: logger,
		now:    time.Now,
	}
}

// Listing is one entry of a List call. Parsed is nil and Err set when
// the body could not be decoded; the entry is still reported so a bad
// file never hides the rest of the list.
type Listing struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Revision string        `json:"revision"`
	Parsed   schema.Record `json:"parsed"`
	Raw      string        `json:"raw"`
	Err      string        `json:"error,omitempty"`
}

// Create validates a submission, stamps the submission date, and writes
// a new pending record. Returns the filename that now identifies the
// record.
func (s *Service) Create(ctx context.Context, sub *schema.Submission) (string, error) {
	if err := schema.ValidateSubmission(sub); err != nil {
		return "", err
	}

	now := s.now().UTC()
	sub.SubmittedDate = now
	filename := schema.MakeFilename(schema.StatusPending, now, sub.Title)

	data, err := schema.EncodeSubmission(sub)
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}

	message := fmt.Sprintf("New microproduct submission: %s", sub.Title)
	if err := s.store.Put(ctx, s.path(filename), data, message, ""); err != nil {
		return "", fmt.Errorf("write submission: %w", err)
	}

	s.logger.Info("submission created", "filename", filename, "title", sub.Title)
	return filename, nil
}

// List reads every YAML file in the submissions directory. Failures are
// per-entry: an unreadable or unparseable file comes back with its Err
// marker set instead of failing the whole listing. A store with no
// submissions directory yet lists as empty.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	entries, err := s.store.List(ctx, s.dir)
	if err != nil {
		if core.IsNotFound(err) {
			return []Listing{}, nil
		}
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	out := make([]Listing, 0, len(entries))
	for _, e := range entries {
		if e.Type != "file" || !isYAML(e.Name) {
			continue
		}

		l := Listing{Name: e.Name, Path: e.Path, Revision: e.Revision}

		f, err := s.store.Get(ctx, e.Path)
		if err != nil {
			// Raced with a rename or delete mid-listing.
			l.Err = fmt.Sprintf("read: %v", err)
			out = append(out, l)
			continue
		}

		l.Raw = string(f.Content)
		l.Revision = f.Revision

		parsed, err := schema.DecodeRecordStrict(f.Content)
		if err != nil {
			s.logger.Warn("unparseable submission", "filename", e.Name, "err", err)
			l.Err = fmt.Sprintf("parse: %v", err)
		} else {
			l.Parsed = parsed
		}
		out = append(out, l)
	}
	return out, nil
}

// Join appends a team member to an existing submission. The write is
// conditioned on the revision observed at read time: a concurrent edit
// surfaces as a ConflictError and the caller retries the whole call.
// Either team-member format in the stored file normalizes to the
// structured form on the way through, so the file is migrated as a side
// effect of the first join.
func (s *Service) Join(ctx context.Context, filename, name, email string) error {
	if err := schema.ValidateJoin(filename, name, email); err != nil {
		return err
	}

	p := s.path(filename)
	f, err := s.store.Get(ctx, p)
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}

	// A malformed body is treated as an empty record. That accepts the
	// loss of unparseable legacy content in exchange for the join
	// succeeding; List flags such files before it comes to this.
	rec := schema.DecodeRecord(f.Content)

	members := schema.NormalizeTeamMembers(rec["team_members"])
	members = append(members, schema.TeamMember{
		Name:       name,
		Email:      email,
		JoinedDate: s.now().UTC().Format(time.RFC3339),
	})
	rec["team_members"] = members

	data, err := schema.EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	message := fmt.Sprintf("Add joiner to %s", filename)
	if err := s.store.Put(ctx, p, data, message, f.Revision); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}

	s.logger.Info("member joined", "filename", filename, "name", name)
	return nil
}

// SetStatus moves a record to a new workflow state by renaming its
// file; the body travels unchanged. On stores with a native rename the
// transition is atomic. Elsewhere it is delete-then-create, and a
// failure between the two steps leaves the record invisible under
// either name; that is surfaced loudly, never masked as success.
func (s *Service) SetStatus(ctx context.Context, filename, newStatus string) (string, string, error) {
	if err := schema.ValidateStatusChange(filename, newStatus); err != nil {
		return "", "", err
	}

	f, err := s.store.Get(ctx, s.path(filename))
	if err != nil {
		return "", "", fmt.Errorf("read submission: %w", err)
	}

	newFilename, err := schema.RenameForStatus(filename, schema.Status(newStatus))
	if err != nil {
		return "", "", err
	}
	if newFilename == filename {
		return filename, newFilename, nil
	}

	message := fmt.Sprintf("Status change: %s -> %s", filename, newFilename)

	if mover, ok := s.store.(store.Mover); ok {
		if err := mover.Move(ctx, s.path(filename), s.path(newFilename), message, f.Revision); err != nil {
			return "", "", fmt.Errorf("rename submission: %w", err)
		}
		s.logger.Info("status changed", "old", filename, "new", newFilename)
		return filename, newFilename, nil
	}

	if err := s.store.Delete(ctx, s.path(filename), message, f.Revision); err != nil {
		return "", "", fmt.Errorf("delete old submission: %w", err)
	}
	if err := s.store.Put(ctx, s.path(newFilename), f.Content, message, ""); err != nil {
		// The old file is gone and the new one failed to appear. The
		// store's own history still has the content, but the record is
		// invisible to the portal until someone recreates it.
		s.logger.Error("status change left record invisible",
			"old", filename, "new", newFilename, "err", err)
		return "", "", fmt.Errorf("recreate submission after delete (record currently invisible, content in store history): %w", err)
	}

	s.logger.Info("status changed", "old", filename, "new", newFilename)
	return filename, newFilename, nil
}

// Ping verifies the store is reachable. A missing submissions directory
// is fine: it appears with the first submission.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.store.List(ctx, s.dir); err != nil && !core.IsNotFound(err) {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

func (s *Service) path(filename string) string {
	return path.Join(s.dir, filename)
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
