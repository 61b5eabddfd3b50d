// Package notify delivers projected snapshots and policy alerts to the UI
// transport as JSON lines.
package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gaia-platform/access-control/internal/access/types"
)

// Notifier is the sink for the engine's observable side effects: a full
// snapshot after every control message, and out-of-band alerts raised by
// the policy layer.
type Notifier interface {
	Publish(snapshot types.Snapshot) error
	Alert(message string) error
}

// LineWriter writes one JSON document per line to w.  Safe for concurrent
// use.
type LineWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{enc: json.NewEncoder(w)}
}

func (n *LineWriter) Publish(snapshot types.Snapshot) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.enc.Encode(snapshot); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

func (n *LineWriter) Alert(message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.enc.Encode(types.Alert{Alert: message}); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

// OpenFile returns a LineWriter appending to the file (or FIFO) at path,
// creating it if needed, plus the handle to close on shutdown.
func OpenFile(path string) (*LineWriter, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open notify path: %w", err)
	}
	return NewLineWriter(f), f, nil
}

// Nop discards everything.  Used when no notify path is configured.
type Nop struct{}

func (Nop) Publish(types.Snapshot) error { return nil }
func (Nop) Alert(string) error           { return nil }
