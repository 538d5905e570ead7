package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Private constants (alphabetical)
const (
	// lockRetryDelay is the polling interval while waiting for an artifact lock.
	lockRetryDelay = 100 * time.Millisecond
)

// Private types (alphabetical)

// artifact is a temporary file owned by one tool invocation, such as a concat
// manifest or a GIF palette. release removes it and drops the lock, if any.
type artifact struct {
	path   string
	lock   *flock.Flock
	logger hclog.Logger
}

// Private functions (alphabetical)

// artifactName returns base, or base with a UUID inserted before the
// extension when unique names are enabled.
func artifactName(base string, unique bool) string {
	if !unique {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + uuid.NewString() + ext
}

// lockPath returns the lock file guarding the artifact at path. Locks live in
// the system temp dir so that output directories stay clean.
func lockPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()
	return filepath.Join(os.TempDir(), "mediamcp-"+key+".lock")
}

// lockStillLinked reports whether the file held by lock is still the one at
// its path. A holder removes the lock file on release, so a waiter may end
// up holding an unlinked file and must retry.
func lockStillLinked(lock *flock.Flock) bool {
	held, err := lock.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(lock.Path())
	if err != nil {
		return false
	}
	return os.SameFile(held, onDisk)
}

// Private methods (alphabetical)

// acquireArtifact reserves a temporary file named base in dir. With fixed
// names and locking enabled, invocations sharing dir wait for each other.
func (s *Service) acquireArtifact(ctx context.Context, inv *invocation, dir, base string) (*artifact, error) {
	a := &artifact{
		path:   filepath.Join(dir, artifactName(base, s.uniqueNames)),
		logger: inv.logger,
	}
	if s.uniqueNames || !s.lockArtifacts {
		return a, nil
	}

	path := lockPath(a.path)
	for {
		lock := flock.New(path)
		locked, err := lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("acquire lock for %s: %w", a.path, err)
		}
		if !locked {
			return nil, fmt.Errorf("acquire lock for %s: not acquired", a.path)
		}
		if lockStillLinked(lock) {
			a.lock = lock
			break
		}
		if err := lock.Unlock(); err != nil {
			return nil, fmt.Errorf("release stale lock for %s: %w", a.path, err)
		}
	}
	inv.logger.Debug("artifact lock acquired", "artifact", a.path, "lock", path)
	return a, nil
}

// release removes the artifact if it exists, then removes the lock file and
// unlocks it. It never fails the invocation; problems are logged.
func (a *artifact) release() {
	if err := os.Remove(a.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("failed to remove temporary artifact", "artifact", a.path, "error", err)
	}
	if a.lock != nil {
		if err := os.Remove(a.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.logger.Warn("failed to remove artifact lock file", "lock", a.lock.Path(), "error", err)
		}
		if err := a.lock.Unlock(); err != nil {
			a.logger.Warn("failed to release artifact lock", "lock", a.lock.Path(), "error", err)
		}
	}
}
