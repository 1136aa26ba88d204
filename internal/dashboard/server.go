// Package dashboard serves a read-only HTTP view over stored generation runs.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/caseforge/caseforge/internal/store"
)

//go:embed static/*
var staticFS embed.FS

// statsInterval is how often the live feed polls the store.
const statsInterval = 2 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	store  *store.Store
	feed   *feed
	addr   string
	server *http.Server
}

// Config holds server configuration.
type Config struct {
	Addr  string
	Store *store.Store
}

// New creates a new dashboard server.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("dashboard requires a store")
	}

	return &Server{
		store: cfg.Store,
		feed:  newFeed(),
		addr:  cfg.Addr,
	}, nil
}

// routes builds the request mux; split out so tests can exercise handlers
// without binding a listener.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRun)
	mux.HandleFunc("GET /api/runs/{id}/cases", s.handleRunCases)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /", http.FileServer(http.FS(static)))

	return mux
}

// Start starts the HTTP server and the live stats feed.
func (s *Server) Start() error {
	s.server = &http.Server{Addr: s.addr, Handler: s.routes()}

	go s.feed.run()
	go s.pollStats()

	log.Printf("Dashboard running at http://localhost%s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// statsEvent is the payload pushed over the websocket feed.
type statsEvent struct {
	Type   string        `json:"type"`
	Status *store.Status `json:"status"`
	Latest []*store.Run  `json:"latest"`
}

// pollStats periodically snapshots the store and pushes the snapshot to
// subscribers. Snapshots identical to the previous one are skipped so an
// idle dashboard stays quiet.
func (s *Server) pollStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	var last []byte
	for range ticker.C {
		status, err := s.store.GetStatus()
		if err != nil {
			continue
		}
		latest, err := s.store.ListRuns(10)
		if err != nil {
			continue
		}

		msg, err := json.Marshal(statsEvent{Type: "stats", Status: status, Latest: latest})
		if err != nil || string(msg) == string(last) {
			continue
		}
		last = msg
		s.feed.publish(msg)
	}
}

// feed fans broadcast messages out to websocket subscribers. A subscriber
// that cannot keep up is dropped rather than blocking the feed.
type feed struct {
	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
	messages    chan []byte
}

func newFeed() *feed {
	return &feed{
		subscribers: make(map[chan []byte]struct{}),
		messages:    make(chan []byte, 64),
	}
}

func (f *feed) run() {
	for msg := range f.messages {
		f.mu.Lock()
		for sub := range f.subscribers {
			select {
			case sub <- msg:
			default:
				delete(f.subscribers, sub)
				close(sub)
			}
		}
		f.mu.Unlock()
	}
}

func (f *feed) publish(msg []byte) {
	select {
	case f.messages <- msg:
	default:
	}
}

func (f *feed) subscribe() chan []byte {
	sub := make(chan []byte, 16)
	f.mu.Lock()
	f.subscribers[sub] = struct{}{}
	f.mu.Unlock()
	return sub
}

func (f *feed) unsubscribe(sub chan []byte) {
	f.mu.Lock()
	if _, ok := f.subscribers[sub]; ok {
		delete(f.subscribers, sub)
		close(sub)
	}
	f.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub := s.feed.subscribe()

	// Reader drains client frames so close frames are processed; its exit
	// tears down the subscription and with it the writer.
	go func() {
		defer s.feed.unsubscribe(sub)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer conn.Close()
		for msg := range sub {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()
}
