package osutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// Returns a context that will live until Ctrl+C is pressed
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

// the working directory is process wide, InDir calls must not interleave
var cwdMutex sync.Mutex

// InDir creates path if it does not exist, runs fn with path as the working
// directory, then returns to the previous working directory even if fn fails
// or panics.
func InDir(path string, fn func() error) (err error) {
	cwdMutex.Lock()
	defer cwdMutex.Unlock()

	previous, err := os.Getwd()
	if err != nil {
		return err
	}
	err = os.MkdirAll(path, 0755)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = os.Chdir(path)
	if err != nil {
		return err
	}
	defer func() {
		restoreErr := os.Chdir(previous)
		if err == nil {
			err = restoreErr
		}
	}()

	return fn()
}

// WriteFileAtomic writes to a temporary file in the same directory and renames
// it over name, so readers never see a partially written file.
func WriteFileAtomic(name string, contents []byte, perm os.FileMode) error {
	dir := filepath.Dir(name)
	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s.*.tmp", filepath.Base(name)))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(contents)
	if err == nil {
		err = tmp.Chmod(perm)
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	err = os.Rename(tmpName, name)
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// SanitizePath replaces every character that is not a letter, digit or one of
// ".-+_/ " with an underscore, non-ascii characters are dropped.
func SanitizePath(path string) string {
	var out strings.Builder
	for _, r := range path {
		switch {
		case r > 127:
			continue
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out.WriteRune(r)
		case strings.ContainsRune(".-+_/ ", r):
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	return out.String()
}
