// Package hub fans parsed log entries out to any number of subscribers.
package hub

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"skein/internal/model"
	"skein/internal/parser"
)

const subscriberBuffer = 1024

// Hub reads raw lines, classifies them with the line parser, and broadcasts
// the resulting entries. Malformed lines are broadcast too, as Unknown
// entries; the hub never discards input on parse grounds.
type Hub struct {
	input       <-chan model.RawLine
	mu          sync.RWMutex
	subscribers []chan model.Entry
	dropped     atomic.Int64
}

// New creates a Hub reading from the given raw-line channel.
func New(input <-chan model.RawLine) *Hub {
	return &Hub{input: input}
}

// Subscribe returns a buffered channel receiving every parsed entry.
// Each subscriber gets its own copy of the stream.
func (h *Hub) Subscribe() <-chan model.Entry {
	ch := make(chan model.Entry, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Dropped returns how many entries were discarded for slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Start consumes, parses and broadcasts until the context is cancelled or
// the input channel closes. Subscriber channels are closed on exit.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-h.input:
			if !ok {
				return
			}
			h.broadcast(model.Entry{
				Source:  raw.Source,
				Message: parser.ParseLine(raw.Text),
			})
		}
	}
}

// broadcast delivers an entry to every subscriber, dropping it for any whose
// buffer is full rather than blocking the pipeline.
func (h *Hub) broadcast(entry model.Entry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- entry:
		default:
			n := h.dropped.Add(1)
			log.Printf("hub: dropped entry for slow consumer (total dropped: %d)", n)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
