package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
	"todo/internal/store"
)

var fixedNow = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

type testServer struct {
	store     *store.Store
	persister *store.MemoryPersister
	server    *Server
}

func newTestServer(t *testing.T, tasks ...domain.Task) *testServer {
	t.Helper()
	p := store.NewMemoryPersister(tasks...)
	clock := func() time.Time { return fixedNow }
	st, err := store.Open(context.Background(), p, store.WithClock(clock))
	require.NoError(t, err)
	return &testServer{
		store:     st,
		persister: p,
		server:    NewServer(st, gin.TestMode, WithClock(clock)),
	}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	return w
}

type listBody struct {
	Tasks []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Detail      string `json:"detail"`
		Deadline    string `json:"deadline"`
		IsCompleted bool   `json:"isCompleted"`
		Overdue     bool   `json:"overdue"`
	} `json:"tasks"`
	Shown int `json:"shown"`
	Total int `json:"total"`
}

type taskBody struct {
	Task struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Detail      string `json:"detail"`
		Deadline    string `json:"deadline"`
		IsCompleted bool   `json:"isCompleted"`
		Overdue     bool   `json:"overdue"`
	} `json:"task"`
}

type errBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Fields []struct {
		Field string `json:"field"`
		Type  string `json:"type"`
	} `json:"fields"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestList_FiltersAndCounts(t *testing.T) {
	ts := newTestServer(t,
		domain.Task{ID: 0, Title: "A", Deadline: "2024-01-10", IsCompleted: false},
		domain.Task{ID: 1, Title: "B", Deadline: "2024-01-05", IsCompleted: true},
		domain.Task{ID: 2, Title: "C late", Deadline: "2024-01-01"},
	)

	w := ts.do(t, http.MethodGet, "/api/tasks?status=incomplete&sort=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[listBody](t, w)
	require.Len(t, body.Tasks, 2)
	assert.Equal(t, int64(2), body.Tasks[0].ID)
	assert.True(t, body.Tasks[0].Overdue)
	assert.Equal(t, int64(0), body.Tasks[1].ID)
	assert.False(t, body.Tasks[1].Overdue)
	assert.Equal(t, 2, body.Shown)
	assert.Equal(t, 3, body.Total)
}

func TestList_SearchAndDue(t *testing.T) {
	ts := newTestServer(t,
		domain.Task{ID: 0, Title: "Buy milk", Deadline: "2024-01-05"},
		domain.Task{ID: 1, Title: "Walk dog", Deadline: "2024-01-05"},
		domain.Task{ID: 2, Title: "Buy more milk", Deadline: "2024-03-01"},
	)

	w := ts.do(t, http.MethodGet, "/api/tasks?q="+url.QueryEscape("milk")+"&due=today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[listBody](t, w)
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, "Buy milk", body.Tasks[0].Title)
}

func TestList_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[],"shown":0,"total":0}`, w.Body.String())
}

func TestList_BadParams(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{"/api/tasks?status=done", "/api/tasks?due=year", "/api/tasks?sort=up"} {
		w := ts.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, "INVALID_INPUT", decode[errBody](t, w).Code)
	}

	body := decode[errBody](t, ts.do(t, http.MethodGet, "/api/tasks?due=year", nil))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "due", body.Fields[0].Field)
	assert.Equal(t, "invalid_value", body.Fields[0].Type)
}

func TestCreate(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/tasks", domain.TaskInput{Title: "Buy milk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/tasks/0", w.Header().Get("Location"))

	body := decode[taskBody](t, w)
	assert.Equal(t, int64(0), body.Task.ID)
	assert.Equal(t, "Buy milk", body.Task.Title)
	assert.Equal(t, "2024-01-05T12:00:00Z", body.Task.Deadline)
	assert.False(t, body.Task.IsCompleted)
	assert.Len(t, ts.persister.Saved(), 1)
}

func TestCreate_FormEncoded(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{"title": {"Walk dog"}, "detail": {"park"}, "deadline": {"2024-01-08"}}
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[taskBody](t, w)
	assert.Equal(t, "park", body.Task.Detail)
	assert.Equal(t, "2024-01-08T00:00:00Z", body.Task.Deadline)
}

func TestCreate_BlankTitle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/tasks", domain.TaskInput{Title: "  ", Detail: "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errBody](t, w)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "title", body.Fields[0].Field)
	assert.Equal(t, "required", body.Fields[0].Type)
	assert.Empty(t, ts.store.Snapshot())
}

func TestCreate_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 4, Title: "x", Deadline: "2024-01-02"})

	w := ts.do(t, http.MethodGet, "/api/tasks/4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[taskBody](t, w)
	assert.Equal(t, "x", body.Task.Title)
	assert.True(t, body.Task.Overdue)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/tasks/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/tasks/abc", nil).Code)

	w = ts.do(t, http.MethodGet, "/api/tasks/-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_INPUT"`)
}

func TestUpdate(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 0, Title: "old", Detail: "keep", Deadline: "2024-01-10T00:00:00Z"})

	w := ts.do(t, http.MethodPut, "/api/tasks/0", map[string]any{"title": "new", "deadline": "2024-02-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[taskBody](t, w)
	assert.Equal(t, "new", body.Task.Title)
	assert.Equal(t, "keep", body.Task.Detail)
	assert.Equal(t, "2024-02-01T00:00:00Z", body.Task.Deadline)
}

func TestUpdate_Errors(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 0, Title: "old"})

	w := ts.do(t, http.MethodPut, "/api/tasks/0", map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/api/tasks/7", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[errBody](t, w).Code)

	assert.Equal(t, "old", ts.store.Snapshot()[0].Title)
}

func TestToggle(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 0, Title: "x"})

	w := ts.do(t, http.MethodPost, "/api/tasks/0/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[taskBody](t, w).Task.IsCompleted)

	w = ts.do(t, http.MethodPost, "/api/tasks/0/toggle", nil)
	assert.False(t, decode[taskBody](t, w).Task.IsCompleted)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/tasks/3/toggle", nil).Code)
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 0, Title: "a"}, domain.Task{ID: 1, Title: "b"})

	w := ts.do(t, http.MethodDelete, "/api/tasks/0", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/api/tasks/0", nil).Code)

	remaining := ts.store.Snapshot()
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(1), remaining[0].ID)
}

func TestList_ReflectsMutations(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/tasks", domain.TaskInput{Title: "a"})
	first := decode[listBody](t, ts.do(t, http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, 1, first.Total)

	ts.do(t, http.MethodPost, "/api/tasks", domain.TaskInput{Title: "b"})
	second := decode[listBody](t, ts.do(t, http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, 2, second.Total, "projection cache invalidated by the store version")
}

func TestExport(t *testing.T) {
	ts := newTestServer(t,
		domain.Task{ID: 0, Title: "Buy milk", Deadline: "2024-01-10T00:00:00Z"},
		domain.Task{ID: 1, Title: "Walk dog", Deadline: "2024-01-03T00:00:00Z", IsCompleted: true},
	)

	w := ts.do(t, http.MethodGet, "/api/export?format=csv&status=incomplete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tasks.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)

	w = ts.do(t, http.MethodGet, "/api/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/export?format=xlsx", nil).Code)
}

func TestExport_PDFFontFailure(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 0, Title: "牛乳を買う", Deadline: "2024-01-10"})
	ts.server = NewServer(ts.store, gin.TestMode,
		WithClock(func() time.Time { return fixedNow }),
		WithPDFFont(filepath.Join(t.TempDir(), "missing.ttf")))

	w := ts.do(t, http.MethodGet, "/api/export?format=pdf", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "STORAGE_ERROR", decode[errBody](t, w).Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, domain.Task{ID: 0, Title: "a"})
	w := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","tasks":1}`, w.Body.String())
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- ts.server.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
