package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sashakarcz/ouija-board/internal/history"
	"github.com/sashakarcz/ouija-board/internal/llm"
)

// generateFunc adapts a function to the llm.Client interface.
type generateFunc func(ctx context.Context, question string) string

func (f generateFunc) Generate(ctx context.Context, question string) string {
	return f(ctx, question)
}

func newTestServer(t *testing.T, client llm.Client) (*Server, *history.Store) {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "answers.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewServer(store, client, 100), store
}

func postAsk(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func getHistory(t *testing.T, router http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAskRespondsWithAnswer(t *testing.T) {
	echo := generateFunc(func(_ context.Context, q string) string { return "echo: " + q })
	s, _ := newTestServer(t, echo)
	router := s.Router()

	rr := postAsk(t, router, `{"question":"Will it rain?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Answer != "echo: Will it rain?" {
		t.Fatalf("answer %q, want %q", resp.Answer, "echo: Will it rain?")
	}
}

func TestAskSequentialOrderPreserved(t *testing.T) {
	echo := generateFunc(func(_ context.Context, q string) string { return "answer to " + q })
	s, _ := newTestServer(t, echo)
	router := s.Router()

	const n = 5
	for i := 0; i < n; i++ {
		rr := postAsk(t, router, fmt.Sprintf(`{"question":"q%d"}`, i))
		if rr.Code != http.StatusOK {
			t.Fatalf("ask %d: status %d", i, rr.Code)
		}
	}

	rr := getHistory(t, router)
	if rr.Code != http.StatusOK {
		t.Fatalf("history status %d", rr.Code)
	}

	var records []history.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(records) != n {
		t.Fatalf("expected %d records, got %d", n, len(records))
	}
	for i, rec := range records {
		wantQ := fmt.Sprintf("q%d", i)
		if rec.Question != wantQ || rec.Answer != "answer to "+wantQ {
			t.Fatalf("record %d out of order: %+v", i, rec)
		}
	}
}

func TestAskEmptyPayload(t *testing.T) {
	echo := generateFunc(func(_ context.Context, q string) string { return "got: " + q })
	s, store := newTestServer(t, echo)
	router := s.Router()

	rr := postAsk(t, router, `{}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusOK)
	}

	recs := store.Snapshot()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Question != "" {
		t.Fatalf("expected empty question, got %q", recs[0].Question)
	}
}

func TestAskMalformedBody(t *testing.T) {
	echo := generateFunc(func(_ context.Context, q string) string { return "got: " + q })
	s, store := newTestServer(t, echo)
	router := s.Router()

	rr := postAsk(t, router, `this is not json`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusOK)
	}
	if recs := store.Snapshot(); len(recs) != 1 || recs[0].Question != "" {
		t.Fatalf("expected one record with empty question, got %+v", recs)
	}
}

func TestAskFallbackStillSucceeds(t *testing.T) {
	// A real streaming client pointed at a dead backend must still produce
	// a 200 carrying the fallback text.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	client := llm.NewOllama(backend.URL, "dolphin-llama3", 100, time.Second)
	s, _ := newTestServer(t, client)
	router := s.Router()

	rr := postAsk(t, router, `{"question":"Are you there?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Answer != "The spirits cannot answer at this time. Try again later." {
		t.Fatalf("expected fallback text, got %q", resp.Answer)
	}
}

func TestHistoryEmptyIsArray(t *testing.T) {
	s, _ := newTestServer(t, generateFunc(func(_ context.Context, q string) string { return "x" }))
	rr := getHistory(t, s.Router())

	if got := bytes.TrimSpace(rr.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestHistoryIdempotentRead(t *testing.T) {
	echo := generateFunc(func(_ context.Context, q string) string { return "a" })
	s, _ := newTestServer(t, echo)
	router := s.Router()

	postAsk(t, router, `{"question":"q1"}`)
	postAsk(t, router, `{"question":"q2"}`)

	first := getHistory(t, router)
	second := getHistory(t, router)
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("repeated history reads differ:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t, generateFunc(func(_ context.Context, q string) string { return "x" }))
	rr := getHistory(t, s.Router())

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Fatalf("header %s = %q, want %q", header, got, want)
		}
	}
}

func TestRateLimitExceeded(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "answers.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s := NewServer(store, generateFunc(func(_ context.Context, q string) string { return "x" }), 1)
	router := s.Router()

	// Limit 1 rps with burst 2: the third immediate request must be rejected.
	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want %d", last, http.StatusTooManyRequests)
	}
}
