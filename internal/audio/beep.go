package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
)

const sampleRate = beep.SampleRate(44100)

// BeepOutput synthesises clips and plays them on the system speaker.
//
// Everything goes through one mixer behind a master volume, which is how
// mute silences music, effects and the thrust loop together.
type BeepOutput struct {
	mixer  *beep.Mixer
	master *effects.Volume
	music  *beep.Ctrl
	loop   *beep.Ctrl
	logger *zap.Logger
}

// NewBeepOutput initialises the speaker and starts the mixer.
func NewBeepOutput(logger *zap.Logger) (*BeepOutput, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &BeepOutput{
		mixer:  &beep.Mixer{},
		logger: logger.Named("beep"),
	}
	// Keeps the speaker fed while nothing is playing.
	o.mixer.Add(beep.Silence(-1))
	o.master = &effects.Volume{Streamer: o.mixer, Base: 2}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(o.master)
	o.logger.Info("audio output ready", zap.Int("sample_rate", int(sampleRate)))
	return o, nil
}

// PlayMusic implements Output.
func (o *BeepOutput) PlayMusic(clip *config.Clip) {
	ctrl := &beep.Ctrl{Streamer: newClipVoice(clip, sampleRate, true)}
	speaker.Lock()
	if o.music != nil {
		o.music.Streamer = nil
	}
	o.music = ctrl
	o.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopMusic implements Output.
func (o *BeepOutput) StopMusic() {
	speaker.Lock()
	if o.music != nil {
		o.music.Streamer = nil
		o.music = nil
	}
	speaker.Unlock()
}

// PlaySFX implements Output.
func (o *BeepOutput) PlaySFX(clip *config.Clip) {
	v := newClipVoice(clip, sampleRate, false)
	speaker.Lock()
	o.mixer.Add(v)
	speaker.Unlock()
}

// StartLoop implements Output.
func (o *BeepOutput) StartLoop(clip *config.Clip) {
	ctrl := &beep.Ctrl{Streamer: newClipVoice(clip, sampleRate, true)}
	speaker.Lock()
	if o.loop != nil {
		o.loop.Streamer = nil
	}
	o.loop = ctrl
	o.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopLoop implements Output.
func (o *BeepOutput) StopLoop() {
	speaker.Lock()
	if o.loop != nil {
		o.loop.Streamer = nil
		o.loop = nil
	}
	speaker.Unlock()
}

// SetMuted implements Output.
func (o *BeepOutput) SetMuted(muted bool) {
	speaker.Lock()
	o.master.Silent = muted
	speaker.Unlock()
}

// Close stops playback and releases the audio device.
func (o *BeepOutput) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

// newClipVoice returns clip synthesised at rate, scaled to the clip volume.
func newClipVoice(clip *config.Clip, rate beep.SampleRate, loop bool) beep.Streamer {
	return newVolume(NewClipStreamer(clip, rate, loop), clip.Volume)
}

// newVolume wraps s in a volume effect. Zero volume is made silent since
// log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// ClipStreamer plays the notes of a clip back to back with the clip's
// waveform. A note of 0 Hz is a rest.
type ClipStreamer struct {
	notes []float64
	wave  string
	rate  beep.SampleRate
	noteN int // Samples per note
	pos   int
	phase float64
	loop  bool
	rng   *rand.Rand
}

// NewClipStreamer creates a streamer for clip. A looping streamer restarts
// from the first note instead of draining.
func NewClipStreamer(clip *config.Clip, rate beep.SampleRate, loop bool) *ClipStreamer {
	return &ClipStreamer{
		notes: clip.Notes,
		wave:  clip.Wave,
		rate:  rate,
		noteN: rate.N(time.Duration(clip.NoteLength * float64(time.Second))),
		loop:  loop,
		rng:   rand.New(rand.NewSource(int64(len(clip.Notes)) + 1)),
	}
}

// Len returns the number of samples in one pass of the clip.
func (c *ClipStreamer) Len() int { return c.noteN * len(c.notes) }

// Stream implements beep.Streamer.
func (c *ClipStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	total := c.Len()
	if total == 0 {
		return 0, false
	}
	for i := range samples {
		if c.pos >= total {
			if !c.loop {
				return i, i > 0
			}
			c.pos = 0
		}
		freq := c.notes[c.pos/c.noteN]
		var v float64
		if freq > 0 {
			v = c.sample()
			c.phase += freq / float64(c.rate)
			c.phase -= math.Floor(c.phase)
		}
		v *= c.envelope(c.pos % c.noteN)
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (c *ClipStreamer) Err() error { return nil }

func (c *ClipStreamer) sample() float64 {
	switch c.wave {
	case "square":
		if c.phase < 0.5 {
			return 1
		}
		return -1
	case "triangle":
		return 4*math.Abs(c.phase-0.5) - 1
	case "noise":
		return c.rng.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * c.phase)
	}
}

// envelope fades the first and last tenth of each note to avoid clicks.
func (c *ClipStreamer) envelope(off int) float64 {
	edge := c.noteN / 10
	if edge == 0 {
		return 1
	}
	switch {
	case off < edge:
		return float64(off) / float64(edge)
	case off >= c.noteN-edge:
		return float64(c.noteN-off) / float64(edge)
	}
	return 1
}
