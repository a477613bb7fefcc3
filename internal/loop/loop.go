package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/audio"
	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/input"
	"github.com/tomz197/asteroids-neo/internal/prefs"
)

// maxFrameDelta caps the time fed to the simulation after a stall, so a
// long pause does not run hundreds of catch-up ticks.
const maxFrameDelta = 250 * time.Millisecond

// Options configures Run.
type Options struct {
	Settings *config.Settings
	Entities *config.Entities
	Store    prefs.Store
	Audio    audio.Output
	Logger   *zap.Logger
	TermSize draw.TermSizeFunc // nil uses draw.DefaultTermSizeFunc
	Seed     int64
}

// Run plays one game on the terminal behind r and w until the player quits,
// the input closes or ctx is cancelled. Simulation runs in fixed ticks; the
// screen is redrawn once per frame.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	termSize := opts.TermSize
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}

	world, err := NewWorld(WorldConfig{
		Settings: opts.Settings,
		Entities: opts.Entities,
		Store:    opts.Store,
		Audio:    opts.Audio,
		Seed:     opts.Seed,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer world.Close()

	stream := input.StartStream(bufio.NewReader(r))
	scr := newScreen(w, opts.Settings.View, termSize)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)
	defer draw.ClearScreen(w)

	tick := opts.Settings.Loop.TickTime()
	ticker := time.NewTicker(opts.Settings.Loop.FrameTime())
	defer ticker.Stop()

	var (
		acc     time.Duration
		pending input.Input
		last    = time.Now()
	)
	for {
		var now time.Time
		select {
		case <-ctx.Done():
			logger.Info("game loop cancelled")
			return nil
		case now = <-ticker.C:
		}

		in := mergeCommands(input.ReadInput(stream), pending)
		if in.Quit {
			logger.Info("player quit")
			return nil
		}

		acc += min(now.Sub(last), maxFrameDelta)
		last = now

		steps := 0
		for acc >= tick {
			step := in
			if steps > 0 {
				step = in.Held()
			}
			if err := world.Step(step, tick); err != nil {
				logger.Error("game loop stopped", zap.Error(err))
				return fmt.Errorf("step: %w", err)
			}
			acc -= tick
			steps++
		}
		pending = input.Input{}
		if steps == 0 {
			// No tick ran this frame; keep the commands for the next one.
			pending = in
		}

		if err := scr.present(world); err != nil {
			if errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return fmt.Errorf("present: %w", err)
		}
	}
}

// mergeCommands adds prev's one-shot commands to next. Held keys come from
// next only.
func mergeCommands(next, prev input.Input) input.Input {
	next.Quit = next.Quit || prev.Quit
	next.Enter = next.Enter || prev.Enter
	next.Escape = next.Escape || prev.Escape
	next.Pause = next.Pause || prev.Pause
	next.Tutorial = next.Tutorial || prev.Tutorial
	next.Credits = next.Credits || prev.Credits
	next.Mute = next.Mute || prev.Mute
	next.Menu = next.Menu || prev.Menu
	return next
}
