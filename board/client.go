package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mission-control/models"
	"mission-control/utilities"
)

// TaskDraft é o corpo do POST /api/tasks.
type TaskDraft struct {
	Title      string              `json:"title"`
	Desc       *string             `json:"desc,omitempty"`
	Status     models.TaskStatus   `json:"status,omitempty"`
	Priority   models.TaskPriority `json:"priority,omitempty"`
	AssignedTo *string             `json:"assignedTo,omitempty"`
}

// TaskPatch é o corpo do PATCH; campos nil não são enviados.
type TaskPatch struct {
	Title    *string              `json:"title,omitempty"`
	Status   *models.TaskStatus   `json:"status,omitempty"`
	Priority *models.TaskPriority `json:"priority,omitempty"`
}

// APIError é uma resposta de erro da API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client fala com a API REST do Mission Control.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, d TaskDraft) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", d, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, p TaskPatch) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), p, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, taskID, text string) (models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(taskID)+"/comments",
		map[string]string{"text": text}, &comment)
	return comment, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("erro ao codificar requisição: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	utilities.LogDebug("board: %s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro na requisição %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao decodificar resposta de %s: %w", path, err)
	}
	return nil
}

// decodeAPIError aceita tanto {"error": "msg"} quanto a lista de erros de validação.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &payload) != nil || len(payload.Error) == 0 {
		return apiErr
	}

	var msg string
	if json.Unmarshal(payload.Error, &msg) == nil {
		apiErr.Message = msg
		return apiErr
	}
	var fields []struct {
		Path    []string `json:"path"`
		Message string   `json:"message"`
	}
	if json.Unmarshal(payload.Error, &fields) == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			if len(f.Path) > 0 {
				parts = append(parts, strings.Join(f.Path, ".")+": "+f.Message)
			} else {
				parts = append(parts, f.Message)
			}
		}
		apiErr.Message = strings.Join(parts, "; ")
	}
	return apiErr
}
