package server

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// server is the implementation of the Server interface.
type server struct {
	mu *sync.RWMutex

	addr           string
	scene          scene.Scene
	profiler       *profiler.Profiler
	allowedOrigins []string
	accessLog      bool

	broadcastInterval time.Duration
	pingInterval      time.Duration
	writeTimeout      time.Duration
	clientQueue       int

	hub      *hub
	upgrader websocket.Upgrader
	handler  http.Handler
	lastSeq  uint64
	listener net.Listener
}

// Server exposes a scene to external viewers over HTTP.
//
// Routes:
//   - GET  /json/scene                      the latest scene.Frame
//   - GET  /json/node/{name}                the pose of one node
//   - GET  /json/timeline                   every animator with its keyframes
//   - GET  /json/timeline/{animator}        one animator with its keyframes
//   - GET  /json/stats                      the latest profiler.Stats
//   - POST /action/{animator}/{action}      play, loop, pause, resume or stop an animator
//   - GET  /ws/pose                         websocket stream of scene.Frame JSON
type Server interface {
	// Handler returns the HTTP handler with all routes and middleware.
	//
	// Returns:
	//   - http.Handler: the root handler
	Handler() http.Handler

	// Publish encodes a frame and pushes it to every websocket client.
	// New clients receive the most recently published frame first.
	//
	// Parameters:
	//   - frame: the frame to send
	//
	// Returns:
	//   - error: error if the frame cannot be encoded
	Publish(frame scene.Frame) error

	// Clients returns the number of connected websocket clients.
	//
	// Returns:
	//   - int: the client count
	Clients() int

	// Addr returns the bound address once ListenAndServe is running, else the configured address.
	//
	// Returns:
	//   - string: the address
	Addr() string

	// ListenAndServe serves HTTP and publishes a frame whenever the scene has advanced,
	// at most once per broadcast interval. It blocks until ctx is done, then shuts down.
	//
	// Parameters:
	//   - ctx: controls the lifetime of the server
	//
	// Returns:
	//   - error: error if the listener fails
	ListenAndServe(ctx context.Context) error
}

var _ Server = &server{}

// NewServer creates a new pose server for a scene.
//
// Parameters:
//   - s: the scene to expose
//   - options: functional options to configure the server
//
// Returns:
//   - Server: the new server (not yet listening)
func NewServer(s scene.Scene, options ...ServerBuilderOption) Server {
	srv := &server{
		mu:                &sync.RWMutex{},
		addr:              "127.0.0.1:8000",
		scene:             s,
		accessLog:         true,
		broadcastInterval: time.Second / 30,
		pingInterval:      30 * time.Second,
		writeTimeout:      10 * time.Second,
		clientQueue:       16,
	}
	for _, option := range options {
		option(srv)
	}

	srv.hub = newHub(srv.clientQueue)
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     srv.checkOrigin,
	}
	srv.handler = srv.routes()
	return srv
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.handleScene).Methods(http.MethodGet)
	r.HandleFunc("/json/node/{name}", s.handleNode).Methods(http.MethodGet)
	r.HandleFunc("/json/timeline", s.handleTimelines).Methods(http.MethodGet)
	r.HandleFunc("/json/timeline/{animator}", s.handleTimeline).Methods(http.MethodGet)
	r.HandleFunc("/json/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/action/{animator}/{action}", s.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/ws/pose", s.handlePoseStream)

	var h http.Handler = r
	if len(s.allowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.allowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		)(h)
	}
	if s.accessLog {
		h = handlers.LoggingHandler(os.Stdout, h)
	}
	return handlers.RecoveryHandler(handlers.RecoveryLogger(log.Default()))(h)
}

func (s *server) Handler() http.Handler {
	return s.handler
}

func (s *server) Publish(frame scene.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return errors.Wrap(err, "failed to encode frame")
	}
	s.hub.broadcast(data)
	return nil
}

func (s *server) Clients() int {
	return s.hub.count()
}

func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.broadcastLoop(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	log.Printf("[Server] serving poses on http://%s", ln.Addr())

	select {
	case <-ctx.Done():
	case err := <-errCh:
		cancel()
		wg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "pose server stopped")
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	wg.Wait()
	log.Printf("[Server] stopped")
	if err != nil {
		return errors.Wrap(err, "failed to shut down pose server")
	}
	return nil
}

// broadcastLoop publishes the scene's frame whenever its sequence number moves.
func (s *server) broadcastLoop(ctx context.Context) {
	if s.scene == nil {
		return
	}
	ticker := time.NewTicker(s.broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := s.scene.Frame()
			if frame.Sequence == s.lastSeq {
				continue
			}
			s.lastSeq = frame.Sequence
			if err := s.Publish(frame); err != nil {
				log.Printf("[Server] %v", err)
			}
		}
	}
}

func (s *server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
