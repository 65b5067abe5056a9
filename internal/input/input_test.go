package input

import (
	"bufio"
	"bytes"
	"io"
	"testing"
	"time"
)

// feed returns a stream holding b, without a reader goroutine.
func feed(s *Stream, b string) *Stream {
	if s == nil {
		s = &Stream{ch: make(chan byte, 256)}
	}
	for i := 0; i < len(b); i++ {
		s.ch <- b[i]
	}
	return s
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		check func(Input) bool
	}{
		{"ctrl-c quits", "\x03", func(in Input) bool { return in.Quit }},
		{"q fires", "q", func(in Input) bool { return in.Fire }},
		{"space fires", " ", func(in Input) bool { return in.Fire }},
		{"enter starts", "\r", func(in Input) bool { return in.Start }},
		{"r restarts", "R", func(in Input) bool { return in.Restart }},
		{"digit selects level", "2", func(in Input) bool { return in.Level == 2 }},
		{"arrow keys are ignored", "\x1b[A", func(in Input) bool { return !in.Fire && !in.Quit && in.Level == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ReadInput(feed(nil, tt.bytes))
			if !tt.check(in) {
				t.Fatalf("unexpected input %+v", in)
			}
			if !in.Active() {
				t.Fatal("expected input to count as activity")
			}
		})
	}
}

func TestSGRMouse(t *testing.T) {
	tests := []struct {
		name     string
		bytes    string
		fire     bool
		col, row int
	}{
		{"left press fires", "\x1b[<0;10;5M", true, 10, 5},
		{"left release", "\x1b[<0;10;5m", false, 10, 5},
		{"motion", "\x1b[<35;120;40M", false, 120, 40},
		{"drag does not fire", "\x1b[<32;7;8M", false, 7, 8},
		{"right press", "\x1b[<2;3;4M", false, 3, 4},
		{"wheel", "\x1b[<64;3;4M", false, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ReadInput(feed(nil, tt.bytes))
			if in.Fire != tt.fire {
				t.Fatalf("expected fire=%v, got %v", tt.fire, in.Fire)
			}
			if !in.Moved || in.PointerCol != tt.col || in.PointerRow != tt.row {
				t.Fatalf("expected pointer (%d, %d), got %+v", tt.col, tt.row, in)
			}
		})
	}
}

func TestSplitMouseReport(t *testing.T) {
	s := feed(nil, "\x1b[<0;12")
	in := ReadInput(s)
	if in.Fire || in.Moved {
		t.Fatalf("partial report should not be applied, got %+v", in)
	}

	in = ReadInput(feed(s, ";9M"))
	if !in.Fire || in.PointerCol != 12 || in.PointerRow != 9 {
		t.Fatalf("expected fire at (12, 9), got %+v", in)
	}
}

func TestPointerPersists(t *testing.T) {
	s := feed(nil, "\x1b[<35;20;10M")
	ReadInput(s)

	in := ReadInput(s)
	if in.Moved {
		t.Fatal("no report arrived this frame")
	}
	if in.PointerCol != 20 || in.PointerRow != 10 {
		t.Fatalf("expected last pointer (20, 10), got (%d, %d)", in.PointerCol, in.PointerRow)
	}
}

func TestMixedKeysAndMouse(t *testing.T) {
	in := ReadInput(feed(nil, "1\x1b[<35;4;4Mr"))
	if in.Level != 1 || !in.Restart || in.PointerCol != 4 {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.Fire {
		t.Fatal("motion should not fire")
	}
}

func TestClosedStream(t *testing.T) {
	s := feed(nil, "q")
	close(s.ch)

	in := ReadInput(s)
	if !in.Fire || !in.Closed {
		t.Fatalf("expected the last byte and closed, got %+v", in)
	}
	if in = ReadInput(s); !in.Closed {
		t.Fatal("stream should stay closed")
	}
}

func TestStopReleasesBlockedReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()
	go func() {
		// More than the channel buffer, so the reader blocks on send.
		pw.Write(bytes.Repeat([]byte{'x'}, 4096))
		pw.Close()
	}()

	s := StartStream(bufio.NewReader(pr))
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for !ReadInput(s).Closed {
		if time.Now().After(deadline) {
			t.Fatal("reader goroutine did not stop")
		}
		time.Sleep(time.Millisecond)
	}
}
