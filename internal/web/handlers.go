package web

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/sashakarcz/ouija-board/internal/history"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleIndex serves the board page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFiles(indexTemplate)
	if err != nil {
		log.Printf("parsing index template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, nil); err != nil {
		log.Printf("executing index template: %v", err)
	}
}

// handleAsk generates an answer, records the pair and returns the answer.
// The body is decoded leniently: a missing question field, or a body that
// is not JSON at all, is treated as an empty question rather than an error.
// Backend failures never surface here either; the llm client absorbs them
// into its fallback text.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = askRequest{}
	}

	answer := s.llm.Generate(r.Context(), req.Question)

	rec := history.Record{Question: req.Question, Answer: answer}
	if err := s.store.Append(rec); err != nil {
		// The client still gets its answer; only durability suffered.
		log.Printf("failed to persist record: %v", err)
	}

	respondJSON(w, askResponse{Answer: answer}, http.StatusOK)
}

// handleHistory returns every recorded pair in insertion order.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.store.Snapshot(), http.StatusOK)
}

func respondJSON(w http.ResponseWriter, payload interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, errorResponse{Error: message}, statusCode)
}
