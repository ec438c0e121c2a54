package board

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mission-control/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(data)})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client()), &reqs
}

func TestClient_UpdateTaskSendsOnlyStatus(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Task{ID: "a", Status: models.StatusDone})
	})

	done := models.StatusDone
	got, err := c.UpdateTask(context.Background(), "a", TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPatch, (*reqs)[0].Method)
	assert.Equal(t, "/api/tasks/a", (*reqs)[0].Path)
	assert.JSONEq(t, `{"status":"Done"}`, (*reqs)[0].Body)
}

func TestClient_ErrorShapes(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   string
	}{
		"static":     {http.StatusNotFound, `{"error":"Task not found"}`, "Task not found"},
		"validation": {http.StatusBadRequest, `{"error":[{"code":"too_small","path":["title"],"message":"Title is required"}]}`, "title: Title is required"},
		"not json":   {http.StatusBadGateway, `<html>`, "Bad Gateway"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.ListTasks(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestClient_DeleteNoContent(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteTask(context.Background(), "a"))
	assert.Equal(t, http.MethodDelete, (*reqs)[0].Method)
}

func TestExportImport(t *testing.T) {
	desc := "d"
	api := newFakeAPI(models.Task{
		ID: "a", Title: "A", Desc: &desc, Status: models.StatusDone, Priority: models.PriorityHigh,
		Comments: []models.Comment{{ID: "c1", Text: "first", TaskID: "a"}},
	})

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(context.Background(), api, &buf, format))

			c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				if strings.HasSuffix(r.URL.Path, "/comments") {
					_, _ = io.WriteString(w, `{"id":"c9","text":"first","taskId":"n1"}`)
					return
				}
				_, _ = io.WriteString(w, `{"id":"n1","title":"A","status":"Done","priority":"High","comments":[]}`)
			})

			n, err := Import(context.Background(), c, &buf)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			require.Len(t, *reqs, 2)
			assert.Equal(t, "/api/tasks", (*reqs)[0].Path)
			assert.JSONEq(t, `{"title":"A","desc":"d","status":"Done","priority":"High"}`, (*reqs)[0].Body)
			assert.Equal(t, "/api/tasks/n1/comments", (*reqs)[1].Path)
			assert.JSONEq(t, `{"text":"first"}`, (*reqs)[1].Body)
		})
	}

	var buf bytes.Buffer
	assert.Error(t, Export(context.Background(), api, &buf, "xml"))
}

func TestImport_RejectsGarbage(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := Import(context.Background(), c, strings.NewReader("tasks: ["))
	assert.Error(t, err)
	assert.Empty(t, *reqs)
}
