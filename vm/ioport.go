package vm

import (
	"fmt"
	"io"
)

// IOSink receives the word a WWD instruction emits.
type IOSink interface {
	Write(w Word)
}

// IOSource supplies the word an RWD instruction writes back.
type IOSource interface {
	Read() Word
}

// writerSink formats each emitted word as "[I/O] 0x%04x" to an io.Writer,
// matching the teacher's stdout-sink convention (spec.md §6).
type writerSink struct {
	w io.Writer
}

// NewWriterSink returns an IOSink that prints to w.
func NewWriterSink(w io.Writer) IOSink {
	return &writerSink{w: w}
}

func (s *writerSink) Write(w Word) {
	fmt.Fprintf(s.w, "[I/O] 0x%04x\n", uint16(w))
}

// ZeroSource always yields 0, the prototype's RWD behavior (spec.md §9:
// "treat the external input source as a configuration option").
type ZeroSource struct{}

func (ZeroSource) Read() Word { return 0 }

// ChannelSource reads words pushed onto a channel, for hosts that want to
// feed RWD from an external producer (e.g. the API server).
type ChannelSource struct {
	ch chan Word
}

// NewChannelSource creates a ChannelSource backed by ch. A read when ch is
// empty returns 0, matching ZeroSource's default.
func NewChannelSource(ch chan Word) *ChannelSource {
	return &ChannelSource{ch: ch}
}

func (s *ChannelSource) Read() Word {
	select {
	case w := <-s.ch:
		return w
	default:
		return 0
	}
}
