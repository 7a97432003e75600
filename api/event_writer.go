package api

import (
	"bytes"
	"io"
	"sync"
)

// EventWriter is an io.Writer that broadcasts everything written to it as
// output events to subscribed WebSocket clients. It backs a session's
// vm.IOSink, so every WWD word the machine emits reaches monitoring clients
// the same way register/PC changes do via Broadcaster.BroadcastState.
type EventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	stream      string // e.g. "io" for the WWD output port
	buffer      *bytes.Buffer
	mutex       sync.Mutex
}

// NewEventWriter creates a writer that broadcasts everything written to it
// under sessionID, tagged with stream (the source the API payload reports
// events under, e.g. "io").
func NewEventWriter(broadcaster *Broadcaster, sessionID string, stream string) *EventWriter {
	return &EventWriter{
		broadcaster: broadcaster,
		sessionID:   sessionID,
		stream:      stream,
		buffer:      &bytes.Buffer{},
	}
}

// Write implements io.Writer interface
// It broadcasts the written data as an output event to all subscribed WebSocket clients
func (w *EventWriter) Write(p []byte) (n int, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err = w.buffer.Write(p)
	if err == nil && n > 0 && w.broadcaster != nil {
		// Broadcast the output event
		w.broadcaster.BroadcastOutput(w.sessionID, w.stream, string(p))
	}
	return n, err
}

// GetBufferAndClear returns the buffer contents and clears it
// This is useful for retrieving accumulated output
func (w *EventWriter) GetBufferAndClear() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	output := w.buffer.String()
	w.buffer.Reset()
	return output
}

// GetBuffer returns the current buffer contents without clearing
func (w *EventWriter) GetBuffer() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.buffer.String()
}

// Ensure EventWriter implements io.Writer
var _ io.Writer = (*EventWriter)(nil)
