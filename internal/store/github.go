package store

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"microhub/internal/core"
)

// GitHub is a store backend over the GitHub contents API. The revision
// marker is the blob sha GitHub reports for each file, and commit
// messages are passed through, so the repository history doubles as the
// portal's audit trail.
//
// GitHub has no atomic rename for contents, so this backend does not
// implement Mover: status changes against it go through delete+create.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// GitHubOptions configures a GitHub store backend.
type GitHubOptions struct {
	Token  string
	Owner  string
	Repo   string
	Branch string // empty means the repository default branch
}

// NewGitHub creates a GitHub contents store.
func NewGitHub(ctx context.Context, opts GitHubOptions) *GitHub {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	return &GitHub{
		client: github.NewClient(oauth2.NewClient(ctx, ts)),
		owner:  opts.Owner,
		repo:   opts.Repo,
		branch: opts.Branch,
	}
}

func (s *GitHub) Get(ctx context.Context, filePath string) (*File, error) {
	fc, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, filePath, s.getOpts())
	if err != nil {
		return nil, s.mapError("get", filePath, err)
	}
	if fc == nil {
		return nil, &core.StoreError{Op: "get", Path: filePath, Err: errors.New("path is a directory")}
	}
	content, err := fc.GetContent()
	if err != nil {
		return nil, &core.StoreError{Op: "get", Path: filePath, Err: err}
	}
	return &File{Content: []byte(content), Revision: fc.GetSHA()}, nil
}

func (s *GitHub) List(ctx context.Context, dir string) ([]Entry, error) {
	_, dc, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, dir, s.getOpts())
	if err != nil {
		return nil, s.mapError("list", dir, err)
	}

	out := make([]Entry, 0, len(dc))
	for _, item := range dc {
		entry := Entry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
		}
		if entry.Type == "file" {
			entry.Revision = item.GetSHA()
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *GitHub) Put(ctx context.Context, filePath string, content []byte, message, revision string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
	}
	if s.branch != "" {
		opts.Branch = github.Ptr(s.branch)
	}

	if revision == "" {
		// Create-only: confirm nothing is already there, then create
		// without a sha. GitHub rejects a sha-less write over an
		// existing file, which is the conflict we want to surface.
		if _, err := s.Get(ctx, filePath); err == nil {
			return &core.ConflictError{Path: filePath, Message: "file already exists"}
		} else if !core.IsNotFound(err) {
			return err
		}
		if _, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, filePath, opts); err != nil {
			return s.mapError("put", filePath, err)
		}
		return nil
	}

	opts.SHA = github.Ptr(revision)
	if _, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, filePath, opts); err != nil {
		return s.mapError("put", filePath, err)
	}
	return nil
}

func (s *GitHub) Delete(ctx context.Context, filePath, message, revision string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		SHA:     github.Ptr(revision),
	}
	if s.branch != "" {
		opts.Branch = github.Ptr(s.branch)
	}
	if _, _, err := s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, filePath, opts); err != nil {
		return s.mapError("delete", filePath, err)
	}
	return nil
}

func (s *GitHub) getOpts() *github.RepositoryContentGetOptions {
	if s.branch == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: s.branch}
}

// mapError translates GitHub API failures into the portal's taxonomy.
// 404 means the path is absent; 409 and 422 both signal a sha that went
// stale between read and write.
func (s *GitHub) mapError(op, filePath string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return &core.NotFoundError{Path: filePath, Err: err}
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return &core.ConflictError{Path: filePath, Message: "stale revision", Err: err}
		}
	}
	return &core.StoreError{Op: op, Path: path.Clean(filePath), Err: err}
}
