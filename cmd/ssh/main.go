package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/audio"
	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/loop"
	"github.com/tomz197/asteroids-neo/internal/prefs"
)

// shutdownGrace is how long running sessions get to end after a signal.
const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ssh server: %v\n", err)
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
	logger, err := config.NewLogger(settings.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	store, err := prefs.OpenSQLite(env.PrefsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	workingDir, _ := os.Getwd()
	logger.Info("ssh config",
		zap.String("host", env.SSHHost),
		zap.String("port", env.SSHPort),
		zap.String("host_key", env.SSHHostKey),
		zap.String("working_dir", workingDir))

	// Cancelled on shutdown so every running game ends.
	games, cancelGames := context.WithCancel(context.Background())
	defer cancelGames()

	h := &handler{
		ctx:      games,
		settings: settings,
		entities: entities,
		store:    store,
		logger:   logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(env.SSHHost, env.SSHPort)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if env.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(env.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting ssh server", zap.String("addr", s.Addr))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-done:
	}
	logger.Info("shutting down", zap.Int("sessions", h.active()))

	cancelGames()
	h.wait(shutdownGrace)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handler runs one single-player game per SSH session. Preferences are
// scoped by the SSH user name, so every user keeps a separate high score.
type handler struct {
	ctx      context.Context
	settings *config.Settings
	entities *config.Entities
	store    prefs.Store
	logger   *zap.Logger

	mu       sync.Mutex
	sessions int
	wg       sync.WaitGroup
}

func (h *handler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.track(1)
		defer h.track(-1)

		logger := h.logger.With(zap.String("user", sess.User()))
		logger.Info("game session started",
			zap.String("term", pty.Term),
			zap.Int("width", pty.Window.Width),
			zap.Int("height", pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(h.ctx)
		defer cancel()
		go func() {
			select {
			case <-sess.Context().Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		err := loop.Run(ctx, sess, sess, loop.Options{
			Settings: h.settings,
			Entities: h.entities,
			Store:    prefs.NewScoped(h.store, sess.User()),
			Audio:    audio.Nop{},
			Logger:   logger,
			TermSize: sizeTracker.getSize,
		})
		if err != nil {
			logger.Error("game error", zap.Error(err))
		}
		if h.ctx.Err() != nil {
			fmt.Fprintln(sess, "Server is shutting down. Thanks for playing!")
		}

		logger.Info("game session ended")
		next(sess)
	}
}

func (h *handler) track(delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions += delta
	h.wg.Add(delta)
}

func (h *handler) active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions
}

// wait blocks until every session has ended or timeout passes.
func (h *handler) wait(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		h.logger.Warn("sessions still running after shutdown grace", zap.Int("sessions", h.active()))
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
