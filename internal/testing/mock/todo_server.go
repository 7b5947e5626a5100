package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// TodoCall is one request received by the mock To Do API.
type TodoCall struct {
	Method    string
	Title     string
	Token     string
	RequestID string
}

// TodoServer is a mock To Do list API.
type TodoServer struct {
	server *httptest.Server

	mu       sync.Mutex
	items    []string
	calls    []TodoCall
	failures []int
}

// NewTodoServer starts a mock To Do API. Call Close when done.
func NewTodoServer() *TodoServer {
	s := &TodoServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/todolist", s.handleTodoList)
	s.server = httptest.NewServer(mux)
	return s
}

// URL returns the base address of the API.
func (s *TodoServer) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *TodoServer) Close() {
	s.server.Close()
}

// FailNext makes the next requests answer with the given status codes,
// one per request, in order.
func (s *TodoServer) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Calls returns the requests received so far.
func (s *TodoServer) Calls() []TodoCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TodoCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Titles returns the titles of the stored items.
func (s *TodoServer) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *TodoServer) handleTodoList(w http.ResponseWriter, r *http.Request) {
	call := TodoCall{
		Method:    r.Method,
		Token:     strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		RequestID: r.Header.Get("client-request-id"),
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		call.Title = r.PostFormValue("Title")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)

	if len(s.failures) > 0 {
		status := s.failures[0]
		s.failures = s.failures[1:]
		w.WriteHeader(status)
		return
	}
	if call.Token == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPost:
		s.items = append(s.items, call.Title)
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		type item struct {
			Title string `json:"Title"`
		}
		out := make([]item, 0, len(s.items))
		for _, title := range s.items {
			out = append(out, item{Title: title})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
