package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nstehr/tackle/agent"
	"github.com/nstehr/tackle/config"
	"github.com/nstehr/tackle/ipc"
	"github.com/nstehr/tackle/rules"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const banner = `
████████╗ █████╗  ██████╗██╗  ██╗██╗     ███████╗
╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝██║     ██╔════╝
   ██║   ███████║██║     █████╔╝ ██║     █████╗
   ██║   ██╔══██║██║     ██╔═██╗ ██║     ██╔══╝
   ██║   ██║  ██║╚██████╗██║  ██╗███████╗███████╗
   ╚═╝   ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝

Rule-Driven Battle Intelligence`

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sidecar on the configured socket and websocket listeners",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), banner)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := newServer(a.cfg)
			if err != nil {
				return err
			}
			return srv.run(ctx)
		},
	}
}

// server owns the listeners and hands each accepted client its own agent.
type server struct {
	cfg     *config.Config
	ruleset rules.Ruleset
	unixLn  net.Listener
	wsLn    net.Listener
	http    *http.Server
	// limiter throttles session starts on both listeners.
	limiter *rate.Limiter

	seedMu   sync.Mutex
	nextSeed int64
}

// newServer resolves the starting ruleset and binds every configured
// listener, so a bad config fails before anything is served.
func newServer(cfg *config.Config) (*server, error) {
	rs, err := cfg.Engine.LoadRuleset()
	if err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}
	// Compile once up front; sessions compile their own copy.
	if _, err := rules.NewEngine(rs); err != nil {
		return nil, fmt.Errorf("compile ruleset %q: %w", rs.Name, err)
	}

	s := &server{
		cfg:      cfg,
		ruleset:  rs,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Server.AcceptRate), cfg.Server.AcceptBurst),
		nextSeed: cfg.Engine.SeedOrClock(),
	}

	if path := cfg.Server.Socket; path != "" {
		// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("clean up socket %s: %w", path, err)
		}
		ln, err := net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("listen on socket %s: %w", path, err)
		}
		s.unixLn = ln
		slog.Info("listening on domain socket", "path", path)
	}

	if addr := cfg.Server.WebsocketAddr; addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			s.closeListeners()
			return nil, fmt.Errorf("listen on %s: %w", addr, err)
		}
		s.wsLn = ln
		mux := http.NewServeMux()
		mux.HandleFunc(cfg.Server.WebsocketPath, s.handleWebsocket)
		s.http = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		slog.Info("listening for websocket clients", "addr", ln.Addr().String(), "path", cfg.Server.WebsocketPath)
	}

	slog.Info("server ready", "ruleset", rs.Name)
	return s, nil
}

// run serves until ctx is cancelled or a listener fails.
func (s *server) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.unixLn != nil {
		g.Go(func() error { return s.acceptLoop(ctx, s.unixLn) })
	}
	if s.http != nil {
		g.Go(func() error {
			if err := s.http.Serve(s.wsLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("websocket server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		if s.unixLn != nil {
			s.unixLn.Close()
			os.Remove(s.cfg.Server.Socket)
		}
		if s.http != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.http.Shutdown(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}

func (s *server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			conn.Close()
			return nil
		}
		slog.Info("new connection accepted", "transport", "unix")
		go s.serveSession(ipc.NewStreamFramer(conn))
	}
}

func (s *server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Wait(r.Context()); err != nil {
		http.Error(w, "too many sessions", http.StatusTooManyRequests)
		return
	}
	f, err := ipc.Upgrade(w, r)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	slog.Info("new connection accepted", "transport", "websocket", "remote", r.RemoteAddr)
	s.serveSession(f)
}

// serveSession runs one client to completion with its own engine and agent.
func (s *server) serveSession(f ipc.Framer) {
	engine, err := rules.NewEngine(s.ruleset)
	if err != nil {
		slog.Error("failed to build engine", "ruleset", s.ruleset.Name, "error", err)
		f.Close()
		return
	}
	conn := ipc.NewConnection(f, nil)
	a := agent.New(conn, engine, rand.New(rand.NewSource(s.seed())))
	a.Register()
	conn.ReadLoop()
	slog.Info("session closed", "session", a.Session, "client", a.Client, "decisions", a.Recorder.Len())
}

// seed hands out consecutive seeds so a fixed engine.seed makes every
// session reproducible.
func (s *server) seed() int64 {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	seed := s.nextSeed
	s.nextSeed++
	return seed
}

func (s *server) closeListeners() {
	if s.unixLn != nil {
		s.unixLn.Close()
	}
	if s.wsLn != nil {
		s.wsLn.Close()
	}
}
