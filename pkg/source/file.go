package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/types"
)

// FileSource tails a JSON-lines file of events, yielding one event per
// appended line. Lines present before the source starts are skipped; only new
// appends are delivered. Malformed lines are logged and dropped.
type FileSource struct {
	path    string
	domain  types.Domain
	watcher *fsnotify.Watcher
	log     *logrus.Logger

	offset  int64
	pending []types.Event
}

// NewFileSource tails path, decoding each line as a LogEvent or NetworkEvent
// depending on domain.
func NewFileSource(path string, domain types.Domain, log *logrus.Logger) (*FileSource, error) {
	if domain != types.DomainLog && domain != types.DomainNetwork {
		return nil, fmt.Errorf("unsupported event domain %q", domain)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the parent directory so the source survives file rotation.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	fs := &FileSource{path: path, domain: domain, watcher: watcher, log: log}
	if info, err := os.Stat(path); err == nil {
		fs.offset = info.Size()
	}
	return fs, nil
}

// Next blocks until an event is appended to the file or the context is done.
func (f *FileSource) Next(ctx context.Context) (types.Event, error) {
	for {
		if len(f.pending) > 0 {
			ev := f.pending[0]
			f.pending = f.pending[1:]
			return ev, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case fsEvent, ok := <-f.watcher.Events:
			if !ok {
				return nil, errors.New("file source closed")
			}
			if fsEvent.Name != f.path {
				continue
			}
			if fsEvent.Op&fsnotify.Create != 0 {
				f.offset = 0
			}
			if fsEvent.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.readNewLines()
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil, errors.New("file source closed")
			}
			f.log.WithError(err).Warn("File source watcher error")
		}
	}
}

func (f *FileSource) readNewLines() {
	file, err := os.Open(f.path)
	if err != nil {
		f.log.WithError(err).WithField("path", f.path).Warn("Failed to open event file")
		return
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		f.log.WithError(err).Warn("Failed to seek event file")
		return
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		f.offset += int64(len(line)) + 1
		if len(line) == 0 {
			continue
		}
		ev, err := f.decode(line)
		if err != nil {
			f.log.WithError(err).Warn("Dropping malformed event line")
			continue
		}
		f.pending = append(f.pending, ev)
	}
}

func (f *FileSource) decode(line []byte) (types.Event, error) {
	if f.domain == types.DomainLog {
		var ev types.LogEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, err
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = time.Now()
		}
		return &ev, nil
	}
	var ev types.NetworkEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return &ev, nil
}

// Close stops the underlying watcher.
func (f *FileSource) Close() error {
	return f.watcher.Close()
}
