// Package logsink persists search records. A single consumer drains a
// bounded queue of pre-formatted lines into a size-rotated append-only
// file, keeping slow disk I/O off the derivation hot path. The results
// file is the sole persisted state of a run.
package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"MnemonicFinder/pkg/logx"
)

type Config struct {
	Folder     string
	FileName   string
	MaxSizeMB  int // rotate when the active file would exceed this
	MaxBackups int // retained rotations
	QueueSize  int
}

// Sink is safe for concurrent Log calls. Close must only be called
// once every producer has stopped logging; it drains the queue fully
// before closing the file, so no record enqueued before shutdown is
// lost.
type Sink struct {
	ch        chan string
	done      chan struct{}
	out       *lumberjack.Logger
	closeOnce sync.Once
}

func New(cfg Config) (*Sink, error) {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if err := os.MkdirAll(cfg.Folder, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder %q: %w", cfg.Folder, err)
	}
	s := &Sink{
		ch:   make(chan string, cfg.QueueSize),
		done: make(chan struct{}),
		out: &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Folder, cfg.FileName),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		},
	}
	go s.drain()
	return s, nil
}

func (s *Sink) drain() {
	defer close(s.done)
	for msg := range s.ch {
		if _, err := fmt.Fprintln(s.out, msg); err != nil {
			logx.S().Errorw("results write failed", "err", err)
		}
	}
	if err := s.out.Close(); err != nil {
		logx.S().Errorw("results close failed", "err", err)
	}
}

// Log enqueues one record, blocking while the queue is full.
func (s *Sink) Log(msg string) {
	s.ch <- msg
}

// Path is the location of the active results file.
func (s *Sink) Path() string {
	return s.out.Filename
}

// Close marks the record stream complete and waits until everything
// still queued has been written out.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.ch) })
	<-s.done
}
