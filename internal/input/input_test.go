package input

import (
	"testing"
	"time"
)

func newTestStream(now *time.Time) *Stream {
	s := NewStream()
	s.now = func() time.Time { return *now }
	return s
}

func TestReadInputCommands(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		check func(Input) bool
	}{
		{"pause", []byte("p"), func(in Input) bool { return in.Pause }},
		{"tutorial", []byte("I"), func(in Input) bool { return in.Tutorial }},
		{"credits", []byte("c"), func(in Input) bool { return in.Credits }},
		{"mute", []byte("m"), func(in Input) bool { return in.Mute }},
		{"enter", []byte("\r"), func(in Input) bool { return in.Enter }},
		{"escape", []byte{0x1b, 'z'}, func(in Input) bool { return in.Escape }},
		{"menu", []byte{0x7f}, func(in Input) bool { return in.Menu }},
		{"quit", []byte("q"), func(in Input) bool { return in.Quit }},
		{"ctrl-c", []byte{0x03}, func(in Input) bool { return in.Quit }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Unix(0, 0)
			s := newTestStream(&now)
			s.Feed(tt.bytes...)
			if in := ReadInput(s); !tt.check(in) {
				t.Fatalf("%q not recognised: %+v", tt.bytes, in)
			}
			// Commands are edge-triggered.
			if in := ReadInput(s); tt.check(in) {
				t.Fatalf("%q still set on the next tick", tt.bytes)
			}
		})
	}
}

func TestReadInputArrowKeysAreNotEscape(t *testing.T) {
	now := time.Unix(0, 0)
	s := newTestStream(&now)
	s.Feed(0x1b, '[', 'A', 0x1b, '[', 'D')
	in := ReadInput(s)
	if !in.Up || !in.Left || in.Escape {
		t.Fatalf("got %+v, want Up and Left without Escape", in)
	}
}

func TestReadInputArrowKeySplitAcrossReads(t *testing.T) {
	tests := []struct {
		name  string
		first []byte
		rest  []byte
	}{
		{"after escape", []byte{0x1b}, []byte{'[', 'A'}},
		{"after bracket", []byte{'p', 0x1b, '['}, []byte{'A'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Unix(0, 0)
			s := newTestStream(&now)
			s.Feed(tt.first...)
			if in := ReadInput(s); in.Escape || in.Up {
				t.Fatalf("partial sequence decoded early: %+v", in)
			}
			s.Feed(tt.rest...)
			in := ReadInput(s)
			if in.Escape || !in.Up {
				t.Fatalf("split arrow key = %+v, want Up without Escape", in)
			}
			if string(in.Pressed) != "\x1b[A" {
				t.Fatalf("pressed = %q", in.Pressed)
			}
		})
	}
}

func TestReadInputLoneEscapeOnNextRead(t *testing.T) {
	now := time.Unix(0, 0)
	s := newTestStream(&now)
	s.Feed(0x1b)
	if in := ReadInput(s); in.Escape {
		t.Fatal("escape decoded before the next read")
	}
	if in := ReadInput(s); !in.Escape {
		t.Fatal("lone escape never reported")
	}
	if in := ReadInput(s); in.Escape {
		t.Fatal("escape reported twice")
	}
}

func TestReadInputHeldKeys(t *testing.T) {
	now := time.Unix(0, 0)
	s := newTestStream(&now)
	s.Feed('w', ' ')
	if in := ReadInput(s); !in.Up || !in.Space {
		t.Fatalf("got %+v", in)
	}

	now = now.Add(keyHoldDuration / 2)
	if in := ReadInput(s); !in.Up || !in.Space {
		t.Fatal("held keys released too early")
	}

	now = now.Add(keyHoldDuration)
	if in := ReadInput(s); in.Up || in.Space {
		t.Fatal("held keys did not expire")
	}
}

func TestHeldDropsCommands(t *testing.T) {
	in := Input{Up: true, Space: true, Enter: true, Pause: true, Quit: true}
	h := in.Held()
	if !h.Up || !h.Space || h.Enter || h.Pause || h.Quit {
		t.Fatalf("Held() = %+v", h)
	}
}
