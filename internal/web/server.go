package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sashakarcz/ouija-board/internal/history"
	"github.com/sashakarcz/ouija-board/internal/llm"
)

const (
	indexTemplate = "templates/index.html"
	staticDir     = "./static"
)

// Server exposes the board over HTTP: the UI shell, /ask and /history.
type Server struct {
	store     *history.Store
	llm       llm.Client
	rateLimit int
}

func NewServer(store *history.Store, client llm.Client, rateLimit int) *Server {
	return &Server{
		store:     store,
		llm:       client,
		rateLimit: rateLimit,
	}
}

// Router builds the route table with the middleware chain applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(rateLimitMiddleware(s.rateLimit))
	r.Use(securityHeadersMiddleware)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	return r
}
