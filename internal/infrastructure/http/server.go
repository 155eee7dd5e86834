// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/usecases"
)

// Asker answers one query. *usecases.HybridUseCase satisfies it.
type Asker interface {
	Ask(ctx context.Context, query string) entities.QueryResult
}

// Indexer rebuilds and reports on the local index.
type Indexer interface {
	IngestFolder(ctx context.Context, dir string, force bool) (*usecases.IngestReport, error)
}

// ChunkCounter reports how many chunks the index holds.
type ChunkCounter interface {
	Count(ctx context.Context) (int, error)
}

// Server is the HTTP server for the hybrid RAG API.
type Server struct {
	asker    Asker
	indexer  Indexer
	counter  ChunkCounter
	dataDir  string
	addr     string
	sessions *Sessions

	reloading sync.Mutex
}

// NewServer creates a new HTTP server. indexer and counter may be nil, which
// disables reloads and chunk counts.
func NewServer(asker Asker, indexer Indexer, counter ChunkCounter, dataDir, addr string) *Server {
	return &Server{
		asker:    asker,
		indexer:  indexer,
		counter:  counter,
		dataDir:  dataDir,
		addr:     addr,
		sessions: NewSessions(DefaultMaxSessions),
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	return corsMiddleware(requestIDMiddleware(loggingMiddleware(mux)))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // model calls can be slow
	}

	log.Printf("[INFO] HybridRAG server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type askRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type askResponse struct {
	entities.QueryResult
	RequestID      string `json:"request_id"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// handleAsk answers a JSON query. A conversation_id of "new" starts a
// conversation; any other id appends to an existing one.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		r.ParseForm()
		req.Query = r.FormValue("query")
		req.ConversationID = r.FormValue("conversation_id")
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query required")
		return
	}

	var conv *entities.Conversation
	if req.ConversationID != "" {
		var ok bool
		conv, ok = s.sessions.Resolve(req.ConversationID)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown conversation")
			return
		}
	}

	result := s.asker.Ask(r.Context(), req.Query)

	resp := askResponse{QueryResult: result, RequestID: RequestID(r.Context())}
	if conv != nil {
		s.sessions.Record(conv.ID, req.Query, result)
		resp.ConversationID = conv.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{"status": "ok"}
	if s.counter != nil {
		n, err := s.counter.Count(r.Context())
		if err != nil {
			body["status"] = "degraded"
			body["error"] = err.Error()
		} else {
			body["chunks"] = n
			body["has_index"] = n > 0
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// handleReload rebuilds the index from the data folder. Only one reload
// runs at a time.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.indexer == nil {
		writeError(w, http.StatusNotImplemented, "reload not configured")
		return
	}
	if !s.reloading.TryLock() {
		writeError(w, http.StatusConflict, "reload already in progress")
		return
	}
	defer s.reloading.Unlock()

	report, err := s.indexer.IngestFolder(r.Context(), s.dataDir, true)
	if err != nil {
		log.Printf("[ERROR] Reload failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "unknown conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type ctxKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s %v", RequestID(r.Context()), r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
