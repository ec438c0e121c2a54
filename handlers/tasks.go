package handlers

import (
	"net/http"

	"mission-control/utilities"
	"mission-control/validation"

	"github.com/gorilla/mux"
)

const msgTaskNotFound = "Task not found"

// ListTasks devolve todas as tarefas, as atualizadas mais recentemente primeiro.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		utilities.LogError(err, "Erro ao listar tarefas")
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		storeFailure(w, err, msgTaskNotFound, "Failed to fetch task", "Erro ao buscar tarefa "+id)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	res := validation.ParseCreateTask(body(w, r))
	if !res.OK() {
		utilities.LogDebug("Validação falhou ao criar tarefa: %v", res.Errors)
		writeValidation(w, res.Errors)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), res.Value)
	if err != nil {
		utilities.LogError(err, "Erro ao inserir tarefa no banco de dados")
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	utilities.LogInfo("Tarefa criada com sucesso: %s (ID: %s)", task.Title, task.ID)
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask aplica um PATCH parcial. Não há verificação de versão: o último a gravar vence.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res := validation.ParseUpdateTask(body(w, r))
	if !res.OK() {
		utilities.LogDebug("Validação falhou ao atualizar tarefa %s: %v", id, res.Errors)
		writeValidation(w, res.Errors)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), id, res.Value)
	if err != nil {
		storeFailure(w, err, msgTaskNotFound, "Failed to update task", "Erro ao atualizar tarefa "+id)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		storeFailure(w, err, msgTaskNotFound, "Failed to delete task", "Erro ao remover tarefa "+id)
		return
	}
	utilities.LogInfo("Tarefa removida: %s", id)
	w.WriteHeader(http.StatusNoContent)
}
