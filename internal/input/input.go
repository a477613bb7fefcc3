// Package input turns raw terminal bytes into per-tick key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so held keys need this persistence.
const keyHoldDuration = 80 * time.Millisecond

// Input represents the current tick's input state.
type Input struct {
	// Held keys: true while the key keeps repeating.
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Space bool

	// Commands: true only on the tick the key arrived.
	Quit     bool
	Enter    bool
	Escape   bool
	Pause    bool // p
	Tutorial bool // i
	Credits  bool // c
	Mute     bool // m
	Menu     bool // b or backspace

	Pressed []byte
}

// Held returns a copy keeping only the held keys. The game loop uses it
// for extra simulation ticks in one frame so commands apply once.
func (in Input) Held() Input {
	return Input{Left: in.Left, Right: in.Right, Up: in.Up, Down: in.Down, Space: in.Space}
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	space time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState
	now   func() time.Time

	// pending holds an ESC or ESC [ that ended the previous read, so an
	// arrow key split across reads is still decoded.
	pending []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := NewStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// NewStream creates a stream fed through Feed instead of a reader.
func NewStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// Feed queues bytes as if they were typed. It never blocks; bytes beyond
// the buffer are dropped.
func (s *Stream) Feed(b ...byte) {
	for _, c := range b {
		select {
		case s.ch <- c:
		default:
		}
	}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// Uses key state persistence to allow detecting simultaneous key combinations.
// A closed stream reports Quit. An escape sequence cut off at the end of
// a read is held for the next one; if nothing follows, it reads as ESC.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.pending
	s.pending = nil
	held := len(buf)
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	fresh := len(buf) > held
	in := Input{Quit: closed}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && fresh && !closed && incompleteCSI(buf[i:]) {
			s.pending = append([]byte(nil), buf[i:]...)
			buf = buf[:i]
			break
		}

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}
		applyByte(&s.state, &in, b, now)
	}
	in.Pressed = buf

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Space = now.Sub(s.state.space) < keyHoldDuration
	return in
}

// incompleteCSI reports whether tail is an ESC or ESC [ with the rest of
// the sequence not yet read.
func incompleteCSI(tail []byte) bool {
	switch len(tail) {
	case 1:
		return true
	case 2:
		return tail[1] == '['
	}
	return false
}

// applyByte records a held key timestamp or sets a command flag.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case ' ':
		state.space = now
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case '\n', '\r':
		in.Enter = true
	case '\x1b':
		in.Escape = true
	case 'p', 'P':
		in.Pause = true
	case 'i', 'I':
		in.Tutorial = true
	case 'c', 'C':
		in.Credits = true
	case 'm', 'M':
		in.Mute = true
	case 'b', 'B', '\b', '\x7f':
		in.Menu = true
	}
}
