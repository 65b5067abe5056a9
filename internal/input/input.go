// Package input turns raw terminal bytes into per-frame input: key presses
// and xterm SGR mouse reports.
package input

import (
	"bufio"
	"sync"
)

// maxPending bounds an unfinished escape sequence carried across frames.
const maxPending = 64

// Input represents the current frame's input. Key and button fields are
// edge-triggered: they are set only in the frame the event arrived.
type Input struct {
	Quit    bool
	Fire    bool
	Start   bool
	Restart bool
	Level   int // 1-9 when a digit was pressed, otherwise 0

	// Pointer is the last reported mouse cell (1-based); Moved is set when
	// a mouse report arrived this frame.
	Moved      bool
	PointerCol int
	PointerRow int

	Closed  bool   // the byte source ended
	Pressed []byte // raw bytes read this frame
}

// Active reports whether anything at all happened this frame.
func (in Input) Active() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel and keeps state that spans frames.
type Stream struct {
	ch      chan byte
	done    chan struct{}
	stop    sync.Once
	pending []byte // unfinished escape sequence from the last frame
	col     int
	row     int
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine ends when r fails or after Stop.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:   make(chan byte, 256),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case <-s.done:
				return
			default:
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop tells the reader goroutine to quit instead of waiting for a consumer.
// A goroutine blocked inside a read exits after that read returns.
func (s *Stream) Stop() {
	s.stop.Do(func() {
		if s.done != nil {
			close(s.done)
		}
	})
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them into this frame's Input.
func ReadInput(s *Stream) Input {
	buf := append([]byte(nil), s.pending...)
	s.pending = s.pending[:0]

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{
		PointerCol: s.col,
		PointerRow: s.row,
		Closed:     s.closed,
		Pressed:    buf,
	}

	rest := parse(buf, &in)
	if len(rest) <= maxPending && !s.closed {
		s.pending = append(s.pending, rest...)
	}

	s.col, s.row = in.PointerCol, in.PointerRow
	return in
}

// parse applies buf to in and returns an unfinished trailing escape sequence, if any.
func parse(buf []byte, in *Input) []byte {
	for i := 0; i < len(buf); {
		b := buf[i]
		if b != '\x1b' {
			applyByte(in, b)
			i++
			continue
		}

		// ESC: only CSI sequences are understood.
		if i+1 >= len(buf) {
			return buf[i:]
		}
		if buf[i+1] != '[' {
			i++
			continue
		}
		if i+2 >= len(buf) {
			return buf[i:]
		}

		if buf[i+2] == '<' {
			ev, n, complete := parseSGRMouse(buf[i+3:])
			if !complete {
				return buf[i:]
			}
			ev.apply(in)
			i += 3 + n
			continue
		}

		// Any other CSI sequence (arrows, focus, ...) is skipped up to its final byte.
		j := i + 2
		for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
			j++
		}
		if j >= len(buf) {
			return buf[i:]
		}
		i = j + 1
	}
	return nil
}

// applyByte maps a single key byte onto the frame input.
func applyByte(in *Input, b byte) {
	switch b {
	case '\x03': // Ctrl-C
		in.Quit = true
	case 'q', 'Q', 'f', 'F', ' ':
		in.Fire = true
	case '\n', '\r':
		in.Start = true
	case 'r', 'R':
		in.Restart = true
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Level = int(b - '0')
	}
}

// mouseEvent is one decoded SGR mouse report.
type mouseEvent struct {
	button int
	col    int
	row    int
	press  bool
	valid  bool
}

// SGR button code bits.
const (
	mouseButtonMask = 0x03
	mouseMotionBit  = 0x20
	mouseWheelBit   = 0x40
)

func (ev mouseEvent) apply(in *Input) {
	if !ev.valid {
		return
	}
	in.Moved = true
	in.PointerCol = ev.col
	in.PointerRow = ev.row
	if ev.press && ev.button&(mouseMotionBit|mouseWheelBit) == 0 && ev.button&mouseButtonMask == 0 {
		in.Fire = true
	}
}

// parseSGRMouse decodes "Cb;Cx;Cy(M|m)" (the part after "ESC[<").
// It returns the bytes consumed and whether the report was complete.
func parseSGRMouse(b []byte) (ev mouseEvent, n int, complete bool) {
	var fields [3]int
	field := 0
	digits := 0

	for n < len(b) {
		c := b[n]
		n++
		switch {
		case c >= '0' && c <= '9':
			fields[field] = fields[field]*10 + int(c-'0')
			digits++
		case c == ';':
			if field == 2 || digits == 0 {
				return mouseEvent{}, n, true
			}
			field++
			digits = 0
		case c == 'M' || c == 'm':
			if field != 2 || digits == 0 {
				return mouseEvent{}, n, true
			}
			return mouseEvent{
				button: fields[0],
				col:    fields[1],
				row:    fields[2],
				press:  c == 'M',
				valid:  true,
			}, n, true
		default:
			// Malformed: drop what we have consumed.
			return mouseEvent{}, n, true
		}
	}
	return mouseEvent{}, n, false
}
