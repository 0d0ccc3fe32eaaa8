package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/patchwork"
	perrors "github.com/vango-dev/patchwork/internal/errors"
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/reconcile"
)

// Host is the application a Server previews. *patchwork.App implements it.
type Host interface {
	Container() live.Node
	HandleEvent(target live.Node, typ, value string) (int, error)
	OnRender(fn patchwork.RenderHook) (cancel func())
}

// Server serves a preview of a Host rendered into a memdom document.
type Server struct {
	doc    *memdom.Document
	host   Host
	config *Config
	logger *slog.Logger

	upgrader websocket.Upgrader
	router   chi.Router

	// mu serializes everything that touches the host or the document.
	mu sync.Mutex

	clientsMu sync.Mutex
	clients   map[*client]struct{}

	cancelHook func()
	httpServer *http.Server
}

// New creates a Server. The host must render into doc.
func New(doc *memdom.Document, host Host, config *Config) *Server {
	config = config.withDefaults()

	s := &Server{
		doc:     doc,
		host:    host,
		config:  config,
		logger:  config.logger().With("component", "server"),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	// The first snapshot covers everything rendered so far.
	doc.Log().Reset()
	s.cancelHook = host.OnRender(s.onRender)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWebSocket)

	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Do runs fn with exclusive access to the host and the document. State
// changes made outside the server's own handlers go through Do.
func (s *Server) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Clients returns the number of connected websockets.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

// container returns the host's container if it lives in the server's
// document.
func (s *Server) container() *memdom.Node {
	n, _ := s.host.Container().(*memdom.Node)
	if n == nil || n.Document() != s.doc {
		return nil
	}
	return n
}

// html serializes the container with node ids. Callers hold s.mu.
func (s *Server) html() string {
	n := s.container()
	if n == nil {
		return ""
	}
	return memdom.InnerHTML(n, memdom.WithNodeIDs())
}

// onRender broadcasts what the last render changed. Renders run under
// s.mu, through Do or a frame handler.
func (s *Server) onRender(stats reconcile.Stats, err error) {
	ops := s.doc.Log().Drain()
	s.logger.Debug("render", "mutations", stats.Mutations(), "ops", len(ops))
	if err != nil {
		s.logger.Error("render failed", "error", err)
		s.broadcast(errorFrame(err))
	}
	if len(ops) == 0 {
		return
	}
	s.broadcast(Frame{Type: FrameMutations, Ops: ops, HTML: s.html()})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	c := &client{
		conn:    conn,
		id:      middleware.GetReqID(r.Context()),
		timeout: s.config.WriteTimeout,
	}

	// Register and snapshot atomically so no render falls in between.
	s.mu.Lock()
	s.addClient(c)
	err = c.write(Frame{Type: FrameSnapshot, HTML: s.html()})
	s.mu.Unlock()

	defer func() {
		s.removeClient(c)
		conn.Close()
		s.logger.Info("client disconnected", "client", c.id, "clients", s.Clients())
	}()
	if err != nil {
		s.logger.Warn("snapshot write failed", "client", c.id, "error", err)
		return
	}
	s.logger.Info("client connected", "client", c.id, "clients", s.Clients())

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "client", c.id, "error", err)
			}
			return
		}

		frame, err := decodeFrame(msg)
		if err == nil {
			err = s.handleFrame(frame)
		}
		if err != nil {
			s.logger.Debug("frame rejected", "client", c.id, "error", err)
			if werr := c.write(errorFrame(err)); werr != nil {
				return
			}
		}
	}
}

func (s *Server) handleFrame(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch f.Type {
	case FrameEvent:
		root := s.container()
		var target *memdom.Node
		if root != nil {
			target = memdom.Find(root, f.Node)
		}
		if target == nil {
			return perrors.New("E502")
		}
		_, err := s.host.HandleEvent(target, f.Event, f.Value)
		return err

	case FrameNavigate:
		s.doc.Window().SetHash(f.Hash)
	}
	return nil
}

func (s *Server) addClient(c *client) {
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
}

func (s *Server) broadcast(f Frame) {
	s.clientsMu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		if err := c.write(f); err != nil {
			s.logger.Warn("broadcast failed", "client", c.id, "error", err)
			c.conn.Close()
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run listens on Config.Address until the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops broadcasting, closes every websocket and stops the HTTP
// server if Run started one.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.cancelHook != nil {
		s.cancelHook()
		s.cancelHook = nil
	}

	s.clientsMu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
