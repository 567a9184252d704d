package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// MessageOutput receives the full text of every http exchange made by an
// instrumented client.
type MessageOutput interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears dir and writes one file per exchange into it.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemOutput{}, fmt.Errorf("create %s: %w", dir, err)
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

var (
	messageOutputMutex sync.RWMutex
	messageOutput      MessageOutput
)

// SetMessageOutput makes every instrumented client dump its exchanges to
// out, nil turns dumping off.
func SetMessageOutput(out MessageOutput) {
	messageOutputMutex.Lock()
	defer messageOutputMutex.Unlock()
	messageOutput = out
}

func currentMessageOutput() MessageOutput {
	messageOutputMutex.RLock()
	defer messageOutputMutex.RUnlock()
	return messageOutput
}
