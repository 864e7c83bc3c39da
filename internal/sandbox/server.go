package sandbox

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/five82/bookshelf/internal/books"
)

// SessionCookie binds CSRF tokens to a browser-like session.
const SessionCookie = "bookshelf_session"

const maxBodyBytes = 1 << 20

// Options configure a sandbox Server.
type Options struct {
	Secret   string        // HMAC key for CSRF tokens; random when empty
	TokenTTL time.Duration // zero uses 15 minutes
	Latency  time.Duration // added to every request
	RPS      float64       // per-client request rate; zero disables limiting
	Burst    int
	Seed     []books.Draft
}

// Server implements the books REST API in memory.
type Server struct {
	repo    *Repo
	tokens  *TokenIssuer
	limiter *rateLimiter
	latency time.Duration
}

// New builds a Server and stores the seed books.
func New(opts Options) *Server {
	secret := opts.Secret
	if secret == "" {
		secret = uuid.NewString()
	}
	s := &Server{
		repo:    NewRepo(),
		tokens:  NewTokenIssuer(secret, opts.TokenTTL),
		latency: opts.Latency,
	}
	if opts.RPS > 0 {
		s.limiter = newRateLimiter(opts.RPS, opts.Burst)
	}
	for _, d := range opts.Seed {
		s.repo.Create(d)
	}
	return s
}

// Repo exposes the backing repository.
func (s *Server) Repo() *Repo {
	return s.repo
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /csrf-token", s.handleCSRFToken)
	mux.HandleFunc("GET /books", s.handleList)
	mux.HandleFunc("GET /books/{id}", s.handleGet)
	mux.Handle("POST /books", s.requireCSRF(http.HandlerFunc(s.handleCreate)))
	mux.Handle("PUT /books/{id}", s.requireCSRF(http.HandlerFunc(s.handleUpdate)))
	mux.Handle("DELETE /books/{id}", s.requireCSRF(http.HandlerFunc(s.handleDelete)))

	var h http.Handler = mux
	h = latencyMiddleware(s.latency)(h)
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	h = recoveryMiddleware(h)
	h = accessLogMiddleware(h)
	return requestIDMiddleware(h)
}

type listResponse struct {
	Count int          `json:"count"`
	Data  []books.Book `json:"data"`
}

type messageResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (s *Server) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	session := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		session = c.Value
	}
	if session == "" {
		session = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    session,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	token, err := s.tokens.Issue(session)
	if err != nil {
		log.Printf("issue csrf token failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, "could not issue csrf token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			session = c.Value
		}
		if err := s.tokens.Verify(r.Header.Get(books.CSRFHeader), session); err != nil {
			log.Printf("csrf check failed: request_id=%s err=%v", RequestIDFrom(r), err)
			writeMessage(w, http.StatusForbidden, ErrInvalidCSRF.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list := s.repo.List()
	writeJSON(w, http.StatusOK, listResponse{Count: len(list), Data: list})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.repo.Get(r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	s.repo.Create(in.draft())
	list := s.repo.List()
	writeJSON(w, http.StatusCreated, listResponse{Count: len(list), Data: list})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.repo.Get(id); err != nil {
		writeRepoError(w, err)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	b, err := s.repo.Update(id, in.draft())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Delete(r.PathValue("id")); err != nil {
		writeRepoError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Book deleted successfully")
}

// decodeInput reads and validates a book body, writing the 400 response
// itself when the body is rejected.
func decodeInput(w http.ResponseWriter, r *http.Request) (bookInput, bool) {
	var in bookInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return bookInput{}, false
	}
	if msg, details := validateInput(in); msg != "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msg, Errors: details})
		return bookInput{}, false
	}
	return in, true
}

func writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Book not found")
		return
	}
	writeMessage(w, http.StatusInternalServerError, err.Error())
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response failed: %v", err)
	}
}
