package tailer

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// checkpointState is the on-disk JSON document holding per-file offsets.
type checkpointState struct {
	SavedAt time.Time        `json:"saved_at"`
	Offsets map[string]int64 `json:"offsets"`
}

// Checkpoint persists read offsets so tailing resumes where it left off
// after a restart instead of re-emitting or skipping lines.
type Checkpoint struct {
	mu    sync.RWMutex
	path  string
	state checkpointState
}

// NewCheckpoint loads the checkpoint at path, or starts an empty one if the
// file does not exist or cannot be decoded.
func NewCheckpoint(path string) (*Checkpoint, error) {
	c := &Checkpoint{
		path:  path,
		state: checkpointState{Offsets: make(map[string]int64)},
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &c.state)
	}
	if c.state.Offsets == nil {
		c.state.Offsets = make(map[string]int64)
	}

	return c, nil
}

// Get returns the saved offset for a file.
func (c *Checkpoint) Get(path string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.state.Offsets[path]
	return v, ok
}

// Set records the current offset for a file.
func (c *Checkpoint) Set(path string, offset int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Offsets[path] = offset
}

// Save writes the state to disk via a temp file and rename, so a crash
// mid-write cannot corrupt the checkpoint.
func (c *Checkpoint) Save() error {
	c.mu.Lock()
	c.state.SavedAt = time.Now().UTC()
	raw, err := json.MarshalIndent(c.state, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
