// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// fileLock is a best-effort, same-host advisory lock built on the
// create-exclusive property of os.OpenFile(O_CREATE|O_EXCL): the first
// caller to successfully create the lock file holds it, and a lock is only
// ever observed by cooperating callers of acquireLock/release in this
// package. It is not an OS-level flock: it does not fence a process that
// never calls these functions, and it offers no guarantee over network
// filesystems. It exists purely as hardening around Store.Save (Load does
// not take the lock), per the state store's documented
// no-cross-process-locking limitation; the engine's own
// one-writer-per-workflow discipline is the real safety net.
type fileLock struct {
	path string
}

// staleAfter is how old an orphaned lock file must be before a new
// acquisition is allowed to steal it (e.g. after a crash that never called
// Release).
const staleAfter = 10 * time.Minute

func lockPathFor(docPath string) string {
	return docPath + ".lock"
}

// acquireLock creates the lock file, stealing a stale one if present.
func acquireLock(docPath string) (*fileLock, error) {
	path := lockPathFor(docPath)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file %s: %w", path, err)
		}
		if !stealIfStale(path) {
			return nil, fmt.Errorf("workflow is locked by another process: %s", path)
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("creating lock file %s after stealing stale lock: %w", path, err)
		}
	}
	defer f.Close()

	fmt.Fprintf(f, "%d", os.Getpid())
	return &fileLock{path: path}, nil
}

func stealIfStale(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) < staleAfter {
		return false
	}
	return os.Remove(path) == nil
}

func (l *fileLock) release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("releasing lock file %s: %w", l.path, err)
	}
	return nil
}

// heldByPID reports the PID recorded in an existing lock file, for
// diagnostics; returns 0 if the file is missing or unreadable.
func heldByPID(docPath string) int {
	data, err := os.ReadFile(lockPathFor(docPath))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0
	}
	return pid
}
