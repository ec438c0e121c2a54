package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mission-control/board"
	"mission-control/config"
	"mission-control/database"
	"mission-control/handlers"
	"mission-control/heartbeat"
	"mission-control/models"
	"mission-control/seed"
	"mission-control/utilities"
	"mission-control/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utilities.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type apiFixture struct {
	srv   *httptest.Server
	store *database.Store
	root  string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store, err := database.Connect(context.Background(), config.Database{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "e2e.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "memory"), 0o755))

	h := handlers.NewFromStore(store, workspace.New(root), nil)
	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	return &apiFixture{srv: srv, store: store, root: root}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestAPI_TaskLifecycle(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/tasks", `{"title":"Audit","priority":"High"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var task models.Task
	require.NoError(t, json.Unmarshal(body, &task))
	assert.Equal(t, models.StatusPlanning, task.Status)

	resp, body = f.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"status":"In Progress","assignedTo":"Atlas"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &task))
	assert.Equal(t, models.StatusInProgress, task.Status)
	require.NotNil(t, task.AssignedTo)
	assert.Equal(t, "Atlas", *task.AssignedTo)

	var commentIDs []string
	for _, text := range []string{"first", "second", "third"} {
		resp, body = f.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/comments", `{"text":"`+text+`"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var c models.Comment
		require.NoError(t, json.Unmarshal(body, &c))
		commentIDs = append(commentIDs, c.ID)
	}

	resp, body = f.do(t, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(body, &tasks))
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Comments, 3)

	resp, _ = f.do(t, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	for _, id := range commentIDs {
		resp, _ = f.do(t, http.MethodGet, "/api/comments/"+id, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	resp, _ = f.do(t, http.MethodGet, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Validation(t *testing.T) {
	f := newAPI(t)

	for _, body := range []string{`{"title":""}`, `{}`, `[]`, `{"title":"A","status":"Blocked"}`, `not json`} {
		resp, data := f.do(t, http.MethodPost, "/api/tasks", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Contains(t, string(data), `"error":[`, body)
	}

	resp, _ := f.do(t, http.MethodPost, "/api/logs", `{"level":"info","module":"","message":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_HeartbeatAndLogs(t *testing.T) {
	f := newAPI(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, _ := f.do(t, http.MethodPost, "/api/tasks", `{"title":"pending"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	heartbeat.New(f.store, f.store, time.Hour).Tick(ctx)

	resp, body := f.do(t, http.MethodGet, "/api/logs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.SystemLog
	require.NoError(t, json.Unmarshal(body, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, heartbeat.Module, logs[0].Module)
	assert.Contains(t, logs[0].Message, "3")

	for i := 0; i < 60; i++ {
		resp, _ := f.do(t, http.MethodPost, "/api/logs", `{"level":"success","module":"API","message":"ok"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	_, body = f.do(t, http.MethodGet, "/api/logs", "")
	require.NoError(t, json.Unmarshal(body, &logs))
	assert.Len(t, logs, 50)

	_, body = f.do(t, http.MethodGet, "/api/stats", "")
	var st models.Stats
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 3, st.Tasks.Planning)
	assert.Equal(t, 61, st.Logs.Total)
	assert.NotNil(t, st.Logs.LastHeartbeat)
}

func TestAPI_WorkspaceRoutes(t *testing.T) {
	f := newAPI(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "memory", "2026-01-01.md"), []byte("# Day one"), 0o644))

	resp, body := f.do(t, http.MethodGet, "/api/files", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "2026-01-01.md")

	resp, body = f.do(t, http.MethodGet, "/api/files/2026-01-01.md", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"name":"2026-01-01.md","content":"# Day one"}`, string(body))

	for _, path := range []string{"/api/files/..secret.md", "/api/files/..", "/api/files/..%2FMEMORY.md", "/api/files/a%2Fb.md", "/api/files/../MEMORY.md"} {
		resp, body = f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.JSONEq(t, `{"error":"Invalid file name"}`, string(body), path)
	}

	resp, body = f.do(t, http.MethodGet, "/api/agents", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestAPI_CORSAllowsPatch(t *testing.T) {
	f := newAPI(t)

	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/tasks/abc", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAPI_BoardClientRoundTrip(t *testing.T) {
	f := newAPI(t)
	ctx := context.Background()
	s, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, f.store, s))

	b := board.New(board.NewClient(f.srv.URL, f.srv.Client()))
	require.NoError(t, b.Refresh(ctx))
	planning := b.Column(models.StatusPlanning)
	require.Len(t, planning, 1)

	id := planning[0].ID
	require.NoError(t, b.Move(ctx, id, models.StatusDone))

	got, err := f.store.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)

	dup, err := b.Duplicate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, planning[0].Title+" (Copy)", dup.Title)
	assert.Len(t, b.Tasks(), 4)
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{
		Port:              "0",
		Database:          config.Database{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "srv.db")},
		WorkspaceRoot:     t.TempDir(),
		HeartbeatInterval: time.Hour,
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := NewServer(ctx, cfg)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/tasks")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
