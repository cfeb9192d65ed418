// Package tailer reads appended lines from watched log files and survives
// restarts and rotation.
package tailer

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"skein/internal/model"
	"skein/internal/watcher"
)

const (
	lineBuffer        = 512
	checkpointEvery   = 5 * time.Second
	reconnectAttempts = 5
	reconnectDelay    = time.Second
)

// Tailer follows watched files and emits one RawLine per appended line.
type Tailer struct {
	mu    sync.Mutex
	tails map[string]*tail
	out   chan model.RawLine
	ckpt  *Checkpoint
	watch *watcher.Watcher
}

// tail is the read state for one file.
type tail struct {
	file    *os.File
	rd      *bufio.Reader
	offset  int64
	partial string // last chunk without a trailing newline
}

// New creates a Tailer fed by the given watcher, resuming offsets from ckpt.
func New(w *watcher.Watcher, ckpt *Checkpoint) *Tailer {
	return &Tailer{
		tails: make(map[string]*tail),
		out:   make(chan model.RawLine, lineBuffer),
		ckpt:  ckpt,
		watch: w,
	}
}

// Lines returns the channel carrying raw log lines.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start opens the watched files and processes change events until the
// context is cancelled. Offsets are checkpointed periodically and on exit.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	for _, p := range t.watch.Paths() {
		t.open(p)
	}

	ticker := time.NewTicker(checkpointEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.persist()
			t.closeAll()
			return

		case ev, ok := <-t.watch.Events:
			if !ok {
				return
			}
			t.handle(ev)

		case <-ticker.C:
			t.persist()
		}
	}
}

func (t *Tailer) handle(ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.drain(ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// A new file at a watched path, typically after rotation.
		t.open(ev.Path)
		t.drain(ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		t.close(ev.Path)
		go t.reconnect(ev.Path)
	}
}

// open starts tailing a file, resuming from a checkpointed offset when one
// exists and from the end of the file otherwise.
func (t *Tailer) open(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.tails[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("cannot open %s: %v", path, err)
		return
	}

	offset, ok := t.ckpt.Get(path)
	if !ok {
		offset, _ = f.Seek(0, io.SeekEnd)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		log.Printf("cannot seek %s: %v", path, err)
		f.Close()
		return
	}

	t.tails[path] = &tail{
		file:   f,
		rd:     bufio.NewReader(f),
		offset: offset,
	}
}

// drain reads from the current offset to EOF and emits complete lines. A
// chunk with no trailing newline is held back until the rest arrives.
func (t *Tailer) drain(path string) {
	t.mu.Lock()
	tl, ok := t.tails[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	for {
		chunk, err := tl.rd.ReadString('\n')
		if err == io.EOF {
			tl.partial += chunk
			break
		}
		if err != nil {
			log.Printf("read error on %s: %v", path, err)
			break
		}

		line := tl.partial + strings.TrimSuffix(chunk, "\n")
		tl.partial = ""
		t.out <- model.RawLine{Text: line, Source: path}
	}

	pos, _ := tl.file.Seek(0, io.SeekCurrent)
	tl.offset = pos - int64(tl.rd.Buffered()) - int64(len(tl.partial))
	t.ckpt.Set(path, tl.offset)
}

func (t *Tailer) close(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tl, ok := t.tails[path]; ok {
		tl.file.Close()
		delete(t.tails, path)
	}
}

// reconnect polls for a rotated file to reappear, giving up after a few
// attempts.
func (t *Tailer) reconnect(path string) {
	for i := 0; i < reconnectAttempts; i++ {
		time.Sleep(reconnectDelay)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		log.Printf("reconnected to rotated file: %s", path)
		t.ckpt.Set(path, 0)
		_ = t.watch.ReWatch(path)
		t.open(path)
		t.drain(path)
		return
	}
	log.Printf("gave up reconnecting to %s after %d retries", path, reconnectAttempts)
}

func (t *Tailer) persist() {
	if err := t.ckpt.Save(); err != nil {
		log.Printf("checkpoint save failed: %v", err)
	}
}

func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tl := range t.tails {
		tl.file.Close()
		delete(t.tails, path)
	}
}
