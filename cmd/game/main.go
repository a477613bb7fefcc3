package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/asteroids-neo/internal/audio"
	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/loop"
	"github.com/tomz197/asteroids-neo/internal/prefs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(env.SettingsPath)
	if err != nil {
		return err
	}
	entities, err := config.LoadEntities(env.EntitiesPath)
	if err != nil {
		return err
	}

	// Log lines on stderr would tear the frame.
	if settings.Logging.File == "" {
		settings.Logging.File = env.LogFile
	}
	logger, err := config.NewLogger(settings.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	switch env.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	store, err := prefs.OpenSQLite(env.PrefsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var out audio.Output = audio.Nop{}
	if env.Audio {
		bo, err := audio.NewBeepOutput(logger)
		if err != nil {
			logger.Warn("audio unavailable, playing silent", zap.Error(err))
		} else {
			out = bo
		}
	}
	defer out.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	return loop.Run(ctx, os.Stdin, os.Stdout, loop.Options{
		Settings: settings,
		Entities: entities,
		Store:    store,
		Audio:    out,
		Logger:   logger,
	})
}
