package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter buffers all writes in memory until Flush is called. It holds
// stderr logs while a full screen program owns the terminal.
// Safe for concurrent use.
type DeferredWriter struct {
	// Limit caps the buffered bytes; later writes are counted and dropped.
	// Zero means no limit.
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

// Write stores data in the internal buffer. It never fails; data beyond
// Limit is discarded.
func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Limit > 0 {
		room := d.Limit - d.buf.Len()
		if room < len(p) {
			room = max(room, 0)
			d.dropped += len(p) - room
			d.buf.Write(p[:room])
			return len(p), nil
		}
	}
	return d.buf.Write(p)
}

// Dropped returns the number of bytes discarded since the last Flush.
func (d *DeferredWriter) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Flush writes all buffered data to w and clears the buffer. When writes
// were dropped a trailing note says how many bytes were lost.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 && d.dropped == 0 {
		return nil
	}

	if _, err := d.buf.WriteTo(w); err != nil {
		return err
	}

	if d.dropped > 0 {
		n := d.dropped
		d.dropped = 0
		if _, err := fmt.Fprintf(w, "... %d bytes of output dropped\n", n); err != nil {
			return err
		}
	}
	return nil
}
