package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

// FakeBackend is an httptest server speaking the CampusCalm widget API.
// Responses are configured through its setters and every call is recorded.
type FakeBackend struct {
	server *httptest.Server

	mu            sync.Mutex
	chatStatus    int
	chatBody      string
	chatMessages  []string
	unread        int
	unreadStatus  int
	items         []model.NotificationItem
	latestStatus  int
	markStatus    int
	markAllStatus int
	markedRead    []int64
	markAllCalls  int
	csrfTokens    []string
}

// NewFakeBackend starts a fake backend that answers every endpoint with
// success until configured otherwise. It is closed when the test completes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		chatStatus:    http.StatusOK,
		chatBody:      `{"reply": "ok"}`,
		unreadStatus:  http.StatusOK,
		latestStatus:  http.StatusOK,
		markStatus:    http.StatusOK,
		markAllStatus: http.StatusOK,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake backend.
func (f *FakeBackend) URL() string {
	return f.server.URL
}

// Client returns a remote client pointed at the fake backend.
func (f *FakeBackend) Client(t *testing.T, opts ...remote.Option) *remote.Client {
	t.Helper()
	c, err := remote.NewClient(f.server.URL, opts...)
	if err != nil {
		t.Fatalf("creating remote client: %v", err)
	}
	return c
}

// SetChat configures the chat endpoint response.
func (f *FakeBackend) SetChat(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatStatus = status
	f.chatBody = body
}

// SetUnread configures the unread-count endpoint.
func (f *FakeBackend) SetUnread(status, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreadStatus = status
	f.unread = count
}

// SetLatest configures the latest-items endpoint.
func (f *FakeBackend) SetLatest(status int, items []model.NotificationItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestStatus = status
	f.items = items
}

// SetMarkStatus configures both mark-read endpoints.
func (f *FakeBackend) SetMarkStatus(one, all int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markStatus = one
	f.markAllStatus = all
}

// ChatMessages returns the messages posted to the chat endpoint.
func (f *FakeBackend) ChatMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chatMessages...)
}

// MarkedRead returns the ids passed to the mark-read endpoint.
func (f *FakeBackend) MarkedRead() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.markedRead...)
}

// MarkAllCalls returns how many times mark-all-read was called.
func (f *FakeBackend) MarkAllCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markAllCalls
}

// CSRFTokens returns the anti-forgery header of every POST, "" when absent.
func (f *FakeBackend) CSRFTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.csrfTokens...)
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodPost {
		f.csrfTokens = append(f.csrfTokens, r.Header.Get(remote.CSRFHeader))
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == remote.ChatPath:
		var req struct {
			Message string `json:"message"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		f.chatMessages = append(f.chatMessages, req.Message)
		writeJSON(w, f.chatStatus, f.chatBody)

	case r.Method == http.MethodGet && path == remote.NotificationsBase+"/unread-count/":
		writeJSON(w, f.unreadStatus, `{"unread_count": `+strconv.Itoa(f.unread)+`}`)

	case r.Method == http.MethodGet && path == remote.NotificationsBase+"/latest/":
		items := f.items
		if items == nil {
			items = []model.NotificationItem{}
		}
		data, _ := json.Marshal(items)
		writeJSON(w, f.latestStatus, string(data))

	case r.Method == http.MethodPost && path == remote.NotificationsBase+"/mark-all-read/":
		f.markAllCalls++
		w.WriteHeader(f.markAllStatus)

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/mark-read/"):
		idText := strings.TrimSuffix(strings.TrimPrefix(path, remote.NotificationsBase+"/"), "/mark-read/")
		id, err := strconv.ParseInt(idText, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		f.markedRead = append(f.markedRead, id)
		w.WriteHeader(f.markStatus)

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
