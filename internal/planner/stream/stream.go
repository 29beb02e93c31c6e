// Package stream multiplexes progress logs and answer text over a single
// text channel. Log lines are framed with a sentinel prefix so the consumer
// side can split them back out without a structured envelope.
package stream

import (
	"io"
	"strings"
)

// Sentinel marks a line as a progress log rather than answer text.
// The trailing space is part of the frame.
const Sentinel = "__LOG__ "

// Mux writes interleaved answer text and log lines to a single writer.
// Not safe for concurrent use; the engine owns it from a single goroutine.
type Mux struct {
	w        io.Writer
	lineOpen bool
}

func NewMux(w io.Writer) *Mux {
	return &Mux{w: w}
}

// Answer writes a chunk of answer text as-is.
func (m *Mux) Answer(chunk string) error {
	if chunk == "" {
		return nil
	}
	if _, err := io.WriteString(m.w, chunk); err != nil {
		return err
	}
	m.lineOpen = !strings.HasSuffix(chunk, "\n")
	return nil
}

// Log writes one progress log line, framed with the sentinel. If answer text
// left a line open, a newline is inserted first so the sentinel always starts
// a fresh line.
func (m *Mux) Log(line string) error {
	var b strings.Builder
	if m.lineOpen {
		b.WriteString("\n")
	}
	b.WriteString(Sentinel)
	b.WriteString(line)
	b.WriteString("\n")
	if _, err := io.WriteString(m.w, b.String()); err != nil {
		return err
	}
	m.lineOpen = false
	return nil
}

// Demux splits a muxed stream back into answer text and log lines. Chunks
// may arrive with arbitrary boundaries; lines are only classified once the
// terminating newline has been seen.
type Demux struct {
	onAnswer func(string)
	onLog    func(string)
	pending  string
}

func NewDemux(onAnswer func(string), onLog func(string)) *Demux {
	return &Demux{onAnswer: onAnswer, onLog: onLog}
}

// Feed pushes one raw chunk into the demux.
func (d *Demux) Feed(chunk string) {
	d.pending += chunk
	for {
		idx := strings.IndexByte(d.pending, '\n')
		if idx < 0 {
			return
		}
		line := d.pending[:idx]
		d.pending = d.pending[idx+1:]
		d.emitLine(line)
	}
}

// Flush emits any trailing text left without a final newline. Call once when
// the stream closes.
func (d *Demux) Flush() {
	if d.pending == "" {
		return
	}
	line := d.pending
	d.pending = ""
	if rest, ok := strings.CutPrefix(line, Sentinel); ok {
		d.onLog(rest)
		return
	}
	d.onAnswer(line)
}

func (d *Demux) emitLine(line string) {
	if rest, ok := strings.CutPrefix(line, Sentinel); ok {
		d.onLog(rest)
		return
	}
	d.onAnswer(line + "\n")
}

// StripLogs removes all sentinel-framed lines from a muxed transcript,
// returning only the answer text. Used before persisting an assistant turn.
func StripLogs(transcript string) string {
	lines := strings.Split(transcript, "\n")
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, strings.TrimRight(Sentinel, " ")) {
			continue
		}
		// Preserve structure: the last element is the text after the final
		// newline, not a full line.
		if i == len(lines)-1 && line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
