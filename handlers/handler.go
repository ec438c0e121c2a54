// Package handlers contém os handlers HTTP da API /api.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"mission-control/database"
	"mission-control/health"
	"mission-control/models"
	"mission-control/utilities"
	"mission-control/validation"
	"mission-control/workspace"
)

type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type CommentStore interface {
	ListTaskComments(ctx context.Context, taskID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, taskID, text string) (models.Comment, error)
	GetComment(ctx context.Context, id string) (models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

type LogStore interface {
	ListRecentLogs(ctx context.Context) ([]models.SystemLog, error)
	ListAllLogs(ctx context.Context) ([]models.SystemLog, error)
}

type LogAppender interface {
	CreateLog(ctx context.Context, in models.CreateLogInput) (models.SystemLog, error)
}

// Deps agrupa tudo que os handlers usam. Logs e Appender costumam ser o mesmo
// Store, a não ser quando o espelho do Firestore está ligado.
type Deps struct {
	Tasks     TaskStore
	Comments  CommentStore
	Logs      LogStore
	Appender  LogAppender
	Workspace *workspace.Workspace
	Health    health.Source
	Now       func() time.Time
}

type Handler struct {
	tasks     TaskStore
	comments  CommentStore
	logs      LogStore
	appender  LogAppender
	workspace *workspace.Workspace
	health    health.Source
	now       func() time.Time
}

func New(d Deps) *Handler {
	h := &Handler{
		tasks:     d.Tasks,
		comments:  d.Comments,
		logs:      d.Logs,
		appender:  d.Appender,
		workspace: d.Workspace,
		health:    d.Health,
		now:       d.Now,
	}
	if h.now == nil {
		h.now = func() time.Time { return time.Now().UTC() }
	}
	if h.health == nil {
		h.health = health.HostSource()
	}
	return h
}

// NewFromStore monta o Handler com um único Store atendendo tarefas, comentários e logs.
func NewFromStore(store *database.Store, ws *workspace.Workspace, appender LogAppender) *Handler {
	if appender == nil {
		appender = store
	}
	return New(Deps{
		Tasks:     store,
		Comments:  store,
		Logs:      store,
		Appender:  appender,
		Workspace: ws,
	})
}

type errorResponse struct {
	Error any `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "Erro ao codificar resposta JSON")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeValidation(w http.ResponseWriter, errs []validation.FieldError) {
	if validation.IsTooBig(errs) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errs})
}

// storeFailure responde 404 para ErrNotFound e 500 com a mensagem fixa para o resto.
func storeFailure(w http.ResponseWriter, err error, notFound, failed, where string) {
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	utilities.LogError(err, where)
	writeError(w, http.StatusInternalServerError, failed)
}

func body(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, validation.MaxBodyBytes)
}
