package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/arc-language/portix/pkg/logging"
	"github.com/arc-language/portix/pkg/registry"
)

// ErrNoSyncURI is returned for overlays that are maintained by hand.
var ErrNoSyncURI = errors.New("overlay has no sync_uri")

// Result says what Sync did to an overlay.
type Result int

const (
	Cloned Result = iota
	Updated
	UpToDate
)

func (r Result) String() string {
	switch r {
	case Cloned:
		return "cloned"
	case Updated:
		return "updated"
	default:
		return "up to date"
	}
}

// Syncer clones or fast-forwards overlays from their sync_uri.
type Syncer struct {
	Logger   *log.Logger
	Progress io.Writer
}

// Sync clones the overlay into its location, or pulls when the location is
// already a git checkout.
func (s *Syncer) Sync(ctx context.Context, entry *registry.Entry) (Result, error) {
	logger := logging.OrDiscard(s.Logger).With("overlay", entry.Name)
	if entry.SyncURI == "" {
		return UpToDate, fmt.Errorf("%s: %w", entry.Name, ErrNoSyncURI)
	}

	if _, err := os.Stat(filepath.Join(entry.Location, ".git")); err == nil {
		logger.Info("pulling", "location", entry.Location)
		return s.pull(ctx, entry)
	}

	if err := checkEmpty(entry.Location); err != nil {
		return UpToDate, fmt.Errorf("%s: %w", entry.Name, err)
	}

	logger.Info("cloning", "uri", entry.SyncURI, "location", entry.Location)
	opts := &git.CloneOptions{
		URL:          entry.SyncURI,
		SingleBranch: true,
		Depth:        1,
		Progress:     s.Progress,
	}
	if entry.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(entry.Branch)
	}
	if _, err := git.PlainCloneContext(ctx, entry.Location, false, opts); err != nil {
		return UpToDate, fmt.Errorf("git clone failed: %w", err)
	}
	return Cloned, nil
}

// SyncAll syncs every overlay that has a sync_uri. Failures are logged and
// joined; one broken overlay does not stop the others.
func (s *Syncer) SyncAll(ctx context.Context, entries []*registry.Entry) error {
	logger := logging.OrDiscard(s.Logger)
	var errs []error
	for _, entry := range entries {
		if entry.SyncURI == "" {
			logger.Debug("skipping overlay without sync_uri", "overlay", entry.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Sync(ctx, entry)
		if err != nil {
			logger.Error("sync failed", "overlay", entry.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		logger.Info("synced", "overlay", entry.Name, "result", res)
	}
	return errors.Join(errs...)
}

func (s *Syncer) pull(ctx context.Context, entry *registry.Entry) (Result, error) {
	repo, err := git.PlainOpen(entry.Location)
	if err != nil {
		return UpToDate, fmt.Errorf("opening %s: %w", entry.Location, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return UpToDate, err
	}

	opts := &git.PullOptions{
		RemoteName:   git.DefaultRemoteName,
		SingleBranch: true,
		Progress:     s.Progress,
	}
	if entry.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(entry.Branch)
	}
	err = wt.PullContext(ctx, opts)
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return UpToDate, nil
	case err != nil:
		return UpToDate, fmt.Errorf("git pull failed: %w", err)
	}
	return Updated, nil
}

// checkEmpty refuses to clone over existing files.
func checkEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("%s exists and is not a git checkout", dir)
	}
	return nil
}
