// Package server exposes the answering pipeline over HTTP for the
// surrounding ticket application. Pipeline failures surface as an opaque
// 502; the caller is responsible for the user-facing apology message.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Answerer is the slice of the responder the server needs.
type Answerer interface {
	Answer(ctx context.Context, subject, body, identity string) (string, error)
	Condense(ctx context.Context, answer string) (string, error)
}

// Server is the HTTP server for the ticket-answering API.
type Server struct {
	answerer Answerer
	addr     string
}

// New creates an HTTP server around the given answerer.
func New(answerer Answerer, addr string) *Server {
	return &Server{answerer: answerer, addr: addr}
}

type answerRequest struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	UserID   string `json:"user_id"`
	Condense bool   `json:"condense,omitempty"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	log.Printf("[server] listening on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/answer", s.handleAnswer)
	mux.HandleFunc("/api/health", s.handleHealth)
	return requestIDMiddleware(loggingMiddleware(mux))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	if req.Subject == "" && req.Body == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "subject or body is required"})
		return
	}

	answer, err := s.answerer.Answer(r.Context(), req.Subject, req.Body, req.UserID)
	if err != nil {
		log.Printf("[server] answer failed for user %s: %v", req.UserID, err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "answer generation failed"})
		return
	}

	if req.Condense {
		condensed, err := s.answerer.Condense(r.Context(), answer)
		if err != nil {
			log.Printf("[server] condense failed for user %s: %v", req.UserID, err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "answer generation failed"})
			return
		}
		answer = condensed
	}

	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestIDMiddleware tags each request for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[server] %s %s %s (%s)", r.Method, r.URL.Path, w.Header().Get("X-Request-ID"), time.Since(start))
	})
}
